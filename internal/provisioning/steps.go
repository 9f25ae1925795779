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

package provisioning

import (
	"context"
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/container/v1"
)

const serviceAccountMemberType = "serviceAccount"

// Steps are the individual provisioning operations.
//
// Every step receives a ClusterSpec value and, where it derives new data, returns an updated copy.
type Steps struct {
	projects   ProjectService
	identity   IdentityService
	clusters   ClusterService
	buckets    BucketIAMService
	translator Translator
	config     Config
	clock      clockwork.Clock
	logger     Logger
}

// NewSteps returns a new Steps instance.
func NewSteps(
	projects ProjectService,
	identity IdentityService,
	clusters ClusterService,
	buckets BucketIAMService,
	translator Translator,
	config Config,
	clock clockwork.Clock,
	logger Logger,
) Steps {
	return Steps{
		projects:   projects,
		identity:   identity,
		clusters:   clusters,
		buckets:    buckets,
		translator: translator,
		config:     config,
		clock:      clock,
		logger:     logger,
	}
}

// EnsureProject reuses the project of the spec or creates it under the organization.
func (s Steps) EnsureProject(ctx context.Context, spec ClusterSpec) (ClusterSpec, Project, error) {
	name := s.config.ProjectPrefix + spec.Name
	if spec.ProjectID == "" {
		spec.ProjectID = name
	}

	fields := map[string]interface{}{"project": spec.ProjectID, "organization": spec.OrganizationID}

	s.logger.Info("creating project "+name, fields)

	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		s.logger.Error(
			fmt.Sprintf("failed to get a project list to check for project %s existence with %s", spec.ProjectID, err.Error()),
			fields,
		)
	}

	for _, project := range projects {
		if project.ID == spec.ProjectID {
			s.logger.Info(fmt.Sprintf("project %s already exists, skipping creation step", spec.ProjectID), fields)

			return spec, project, nil
		}
	}

	project, completion, err := s.projects.CreateProject(ctx, ProjectRequest{
		ID:             spec.ProjectID,
		Name:           name,
		OrganizationID: spec.OrganizationID,
	})
	if err == nil {
		err = completion.Wait(ctx)
	}
	if err != nil {
		return spec, Project{}, s.fail(
			StepEnsureProject,
			fmt.Sprintf("failed to create project %s for organization %s", spec.Name, spec.OrganizationID),
			err,
			fields,
		)
	}

	return spec, project, nil
}

// EnableServices enables the services one after the other.
// A service is only requested once its predecessor is active.
func (s Steps) EnableServices(ctx context.Context, spec ClusterSpec, services []string) error {
	fields := map[string]interface{}{"project": spec.ProjectID}

	s.logger.Info(fmt.Sprintf("enabling services %s for project %s", strings.Join(services, ", "), spec.ProjectID), fields)

	for _, service := range services {
		if err := s.identity.EnableService(ctx, spec.ProjectID, service); err != nil {
			return s.fail(
				StepEnableServices,
				fmt.Sprintf("failed to enable service %s for project %s", service, spec.ProjectID),
				err,
				fields,
			)
		}
	}

	return nil
}

// FixBilling enables the billing API and associates the billing account with the project.
func (s Steps) FixBilling(ctx context.Context, spec ClusterSpec) error {
	fields := map[string]interface{}{"project": spec.ProjectID}

	s.logger.Info("associating billing account with project "+spec.ProjectID, fields)

	err := s.identity.EnableService(ctx, spec.ProjectID, s.config.BillingService)
	if err == nil {
		err = s.identity.AssignBilling(ctx, spec.ProjectID, spec.BillingAccount)
	}
	if err != nil {
		// the account in the message is the service account, as users know it
		return s.fail(
			StepFixBilling,
			"failed to associate billing with account "+spec.ServiceAccount,
			err,
			fields,
		)
	}

	return nil
}

// CreateClusterService creates the cluster service account.
// The returned spec refers to the account by its canonical email when the provider reports one.
func (s Steps) CreateClusterService(ctx context.Context, spec ClusterSpec) (ClusterSpec, ServiceAccount, error) {
	fields := map[string]interface{}{"project": spec.ProjectID, "serviceAccount": spec.ServiceAccount}

	s.logger.Info("creating service account for project "+spec.ProjectID, fields)

	account, err := s.identity.CreateServiceAccount(ctx, spec.ProjectID, spec.ServiceAccount, s.config.ServiceAccountDisplayName)
	if err != nil {
		return spec, ServiceAccount{}, s.fail(
			StepCreateClusterService,
			"failed to create cluster service "+spec.ServiceAccount,
			err,
			fields,
		)
	}

	if account.Email != "" {
		spec.ServiceAccount = account.Email
	}

	return spec, account, nil
}

// GetAccountCredentials mints credentials for the cluster service account.
func (s Steps) GetAccountCredentials(ctx context.Context, spec ClusterSpec) (ClusterSpec, error) {
	fields := map[string]interface{}{"project": spec.ProjectID, "serviceAccount": spec.ServiceAccount}

	s.logger.Info("acquiring service account credentials for project "+spec.ProjectID, fields)

	credentials, err := s.identity.CreateCredentials(ctx, spec.ProjectID, spec.ServiceAccount)
	if err != nil {
		return spec, s.fail(
			StepGetAccountCredentials,
			"failed to get account credentials for "+spec.ServiceAccount,
			err,
			fields,
		)
	}

	spec.Credentials = &credentials

	return spec, nil
}

// SetRoles assigns the cluster roles to the service account in a single batch.
func (s Steps) SetRoles(ctx context.Context, spec ClusterSpec) error {
	fields := map[string]interface{}{"project": spec.ProjectID, "serviceAccount": spec.ServiceAccount}

	s.logger.Info("setting service account roles "+spec.ProjectID, fields)

	err := s.identity.AssignRoles(ctx, spec.ProjectID, serviceAccountMemberType, spec.ServiceAccount, s.config.ClusterRoles)
	if err != nil {
		return s.fail(
			StepSetRoles,
			"failed to assign roles to cluster service "+spec.ServiceAccount,
			err,
			fields,
		)
	}

	return nil
}

// GrantBucketAccess grants the service account read access to the readable buckets
// and write access to the writable buckets.
//
// Buckets are processed concurrently; the policy of one bucket is read and written back once.
func (s Steps) GrantBucketAccess(ctx context.Context, spec ClusterSpec) error {
	s.logger.Info("granting bucket access for project "+spec.ProjectID, map[string]interface{}{"project": spec.ProjectID})

	var buckets []string
	roles := make(map[string][]string)

	addRole := func(names []string, role string) {
		for _, name := range names {
			if _, ok := roles[name]; !ok {
				buckets = append(buckets, name)
			}

			if !containsString(roles[name], role) {
				roles[name] = append(roles[name], role)
			}
		}
	}

	addRole(spec.ReadableBuckets, s.config.ReaderRole)
	addRole(spec.WritableBuckets, s.config.WriterRole)

	group, ctx := errgroup.WithContext(ctx)

	for _, bucket := range buckets {
		bucket := bucket
		bucketRoles := roles[bucket]

		group.Go(func() error {
			return s.grantBucketRoles(ctx, spec, bucket, bucketRoles)
		})
	}

	return group.Wait()
}

func (s Steps) grantBucketRoles(ctx context.Context, spec ClusterSpec, bucket string, roles []string) error {
	fields := map[string]interface{}{"project": spec.ProjectID, "bucket": bucket}

	s.logger.Info("getting bucket access for project "+spec.ProjectID, fields)

	policy, err := s.buckets.GetPolicy(ctx, bucket)
	if err != nil {
		return s.fail(StepGrantBucketAccess, "failed to get roles for "+bucket, err, fields)
	}

	member := serviceAccountMemberType + ":" + spec.ServiceAccount

	s.logger.Info("setting bucket access for project "+spec.ProjectID, fields)

	err = s.buckets.SetPolicy(ctx, bucket, GrantAll(policy, member, roles))
	if err != nil {
		return s.fail(
			StepGrantBucketAccess,
			fmt.Sprintf("failed to grant %s to %s", spec.ServiceAccount, strings.Join(roles, ", ")),
			err,
			fields,
		)
	}

	return nil
}

// CreateCluster submits the translated cluster creation request.
//
// While the platform reports that it is still initializing the same request is resubmitted
// after a fixed pause, up to the configured number of attempts.
func (s Steps) CreateCluster(ctx context.Context, spec ClusterSpec) (ClusterSpec, *container.CreateClusterRequest, error) {
	fields := map[string]interface{}{"project": spec.ProjectID, "cluster": spec.Name}

	s.logger.Info("creating Kubernetes cluster for project "+spec.ProjectID, fields)

	request := s.translator.ClusterRequest(spec)

	var operation Operation

	for attempt := 1; ; attempt++ {
		var err error

		operation, err = s.clusters.CreateCluster(ctx, request)
		if err == nil {
			break
		}

		if !strings.Contains(err.Error(), s.config.ClusterRace.Marker) || attempt >= s.config.ClusterRace.MaxAttempts {
			return spec, request, s.fail(StepCreateCluster, "failed to instantiate cluster", err, fields)
		}

		s.logger.Warn(
			fmt.Sprintf(
				"failed to provision cluster due to race conditions in Google API initialization. Trying again in %s ...",
				s.config.ClusterRace.Delay,
			),
			fields,
		)

		select {
		case <-s.clock.After(s.config.ClusterRace.Delay):
		case <-ctx.Done():
			return spec, request, s.fail(StepCreateCluster, "failed to instantiate cluster", ctx.Err(), fields)
		}
	}

	if request.Cluster.MasterAuth != nil && spec.Password == "" {
		spec.Password = request.Cluster.MasterAuth.Password
	}

	spec.Operation = &operation

	return spec, request, nil
}

func (s Steps) fail(step string, message string, err error, fields map[string]interface{}) error {
	stepErr := &StepError{
		Step:    step,
		Message: message,
		Err:     err,
	}

	s.logger.Error(stepErr.Error(), fields)

	return errors.WithStack(stepErr)
}
