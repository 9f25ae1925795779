// Copyright © 2020 Banzai Cloud
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"emperror.dev/errors"
	"google.golang.org/api/cloudbilling/v1"
	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/iam/v1"
	"google.golang.org/api/serviceusage/v1"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

const credentialsFileKeyType = "TYPE_GOOGLE_CREDENTIALS_FILE"

// IdentityService enables service APIs, associates billing and manages service accounts of projects.
type IdentityService struct {
	clients    ClientFactory
	operations OperationConfig
}

// NewIdentityService returns a new IdentityService.
func NewIdentityService(clients ClientFactory, operations OperationConfig) IdentityService {
	return IdentityService{
		clients:    clients,
		operations: operations,
	}
}

// EnableService enables a service API for a project and waits until it is active.
func (s IdentityService) EnableService(ctx context.Context, projectID string, service string) error {
	svc, err := s.clients.ServiceUsage(ctx)
	if err != nil {
		return err
	}

	op, err := svc.Services.Enable(
		fmt.Sprintf("projects/%s/services/%s", projectID, service),
		&serviceusage.EnableServiceRequest{},
	).Context(ctx).Do()
	if err != nil {
		return translateError(err)
	}

	return waitForOperation(ctx, s.operations, func(ctx context.Context) (bool, error) {
		if !op.Done {
			current, err := svc.Operations.Get(op.Name).Context(ctx).Do()
			if err != nil {
				return false, translateError(err)
			}

			op = current
		}

		if op.Done && op.Error != nil {
			return true, errors.New(op.Error.Message)
		}

		return op.Done, nil
	})
}

// AssignBilling associates a billing account with a project.
func (s IdentityService) AssignBilling(ctx context.Context, projectID string, billingAccount string) error {
	svc, err := s.clients.Billing(ctx)
	if err != nil {
		return err
	}

	_, err = svc.Projects.UpdateBillingInfo(
		"projects/"+projectID,
		&cloudbilling.ProjectBillingInfo{
			BillingAccountName: "billingAccounts/" + billingAccount,
		},
	).Context(ctx).Do()

	return translateError(err)
}

// CreateServiceAccount creates a service account in a project.
// An account that already exists is returned as is.
func (s IdentityService) CreateServiceAccount(
	ctx context.Context,
	projectID string,
	accountID string,
	displayName string,
) (provisioning.ServiceAccount, error) {
	svc, err := s.clients.IAM(ctx)
	if err != nil {
		return provisioning.ServiceAccount{}, err
	}

	account, err := svc.Projects.ServiceAccounts.Create(
		"projects/"+projectID,
		&iam.CreateServiceAccountRequest{
			AccountId: accountID,
			ServiceAccount: &iam.ServiceAccount{
				DisplayName: displayName,
			},
		},
	).Context(ctx).Do()
	if isConflict(err) {
		account, err = svc.Projects.ServiceAccounts.Get(serviceAccountName(projectID, accountID)).Context(ctx).Do()
	}
	if err != nil {
		return provisioning.ServiceAccount{}, translateError(err)
	}

	return provisioning.ServiceAccount{
		Name:     account.Name,
		Email:    account.Email,
		UniqueID: account.UniqueId,
	}, nil
}

// CreateCredentials mints a new key file for a service account.
func (s IdentityService) CreateCredentials(ctx context.Context, projectID string, account string) (provisioning.Credentials, error) {
	svc, err := s.clients.IAM(ctx)
	if err != nil {
		return provisioning.Credentials{}, err
	}

	key, err := svc.Projects.ServiceAccounts.Keys.Create(
		serviceAccountName(projectID, account),
		&iam.CreateServiceAccountKeyRequest{
			PrivateKeyType: credentialsFileKeyType,
		},
	).Context(ctx).Do()
	if err != nil {
		return provisioning.Credentials{}, translateError(err)
	}

	keyFile, err := base64.StdEncoding.DecodeString(key.PrivateKeyData)
	if err != nil {
		return provisioning.Credentials{}, errors.WrapIf(err, "failed to decode service account key")
	}

	var credentials provisioning.Credentials
	if err := json.Unmarshal(keyFile, &credentials); err != nil {
		return provisioning.Credentials{}, errors.WrapIf(err, "failed to parse service account key")
	}

	return credentials, nil
}

// AssignRoles grants roles on a project to a principal with a single policy update.
func (s IdentityService) AssignRoles(
	ctx context.Context,
	projectID string,
	memberType string,
	account string,
	roles []string,
) error {
	svc, err := s.clients.ResourceManager(ctx)
	if err != nil {
		return err
	}

	policy, err := svc.Projects.GetIamPolicy(projectID, &cloudresourcemanager.GetIamPolicyRequest{}).Context(ctx).Do()
	if err != nil {
		return translateError(err)
	}

	member := memberType + ":" + serviceAccountEmail(projectID, account)

	granted := provisioning.GrantAll(fromProjectPolicy(policy), member, roles)

	_, err = svc.Projects.SetIamPolicy(projectID, &cloudresourcemanager.SetIamPolicyRequest{
		Policy: toProjectPolicy(policy, granted),
	}).Context(ctx).Do()

	return translateError(err)
}

func fromProjectPolicy(policy *cloudresourcemanager.Policy) provisioning.AccessPolicy {
	result := provisioning.AccessPolicy{
		Version: policy.Version,
		Etag:    policy.Etag,
	}

	for _, binding := range policy.Bindings {
		b := provisioning.Binding{
			Role:    binding.Role,
			Members: binding.Members,
		}

		if binding.Condition != nil {
			b.Condition = &provisioning.Condition{
				Title:       binding.Condition.Title,
				Description: binding.Condition.Description,
				Expression:  binding.Condition.Expression,
			}
		}

		result.Bindings = append(result.Bindings, b)
	}

	return result
}

// toProjectPolicy writes the bindings of granted back into a copy of the original policy.
// Bindings keep their position, so conditions and audit configs of the original survive.
func toProjectPolicy(original *cloudresourcemanager.Policy, granted provisioning.AccessPolicy) *cloudresourcemanager.Policy {
	result := *original
	result.Bindings = make([]*cloudresourcemanager.Binding, 0, len(granted.Bindings))

	for i, binding := range granted.Bindings {
		b := &cloudresourcemanager.Binding{}
		if i < len(original.Bindings) {
			*b = *original.Bindings[i]
		}

		b.Role = binding.Role
		b.Members = binding.Members

		result.Bindings = append(result.Bindings, b)
	}

	return &result
}

// serviceAccountEmail returns the email of an account given by id or email.
func serviceAccountEmail(projectID string, account string) string {
	if strings.Contains(account, "@") {
		return account
	}

	return fmt.Sprintf("%s@%s.iam.gserviceaccount.com", account, projectID)
}

func serviceAccountName(projectID string, account string) string {
	return fmt.Sprintf("projects/%s/serviceAccounts/%s", projectID, serviceAccountEmail(projectID, account))
}
