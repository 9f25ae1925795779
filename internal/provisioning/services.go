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

	"google.golang.org/api/container/v1"
)

// Project is a cloud project.
type Project struct {
	ID   string
	Name string
}

// ProjectRequest describes a project to create under an organization.
type ProjectRequest struct {
	ID             string
	Name           string
	OrganizationID string
}

// Completion is an awaitable completion signal of an asynchronous provider action.
//go:generate mockery -name Completion -inpkg -testonly
type Completion interface {
	// Wait blocks until the action finishes and returns its failure, if any.
	Wait(ctx context.Context) error
}

// ProjectService manages cloud projects.
//go:generate mockery -name ProjectService -inpkg -testonly
type ProjectService interface {
	// ListProjects lists the projects visible to the caller.
	ListProjects(ctx context.Context) ([]Project, error)

	// CreateProject starts creating a project.
	CreateProject(ctx context.Context, request ProjectRequest) (Project, Completion, error)
}

// ServiceAccount is a created service account.
type ServiceAccount struct {
	Name     string
	Email    string
	UniqueID string
}

// IdentityService manages service APIs, billing and identities of a project.
//go:generate mockery -name IdentityService -inpkg -testonly
type IdentityService interface {
	// EnableService enables a service API for a project and waits for it to become active.
	EnableService(ctx context.Context, projectID string, service string) error

	// AssignBilling associates a billing account with a project.
	AssignBilling(ctx context.Context, projectID string, billingAccount string) error

	// CreateServiceAccount creates a service account in a project.
	CreateServiceAccount(ctx context.Context, projectID string, accountID string, displayName string) (ServiceAccount, error)

	// CreateCredentials mints a key for a service account.
	CreateCredentials(ctx context.Context, projectID string, account string) (Credentials, error)

	// AssignRoles grants a batch of roles on a project to a principal.
	AssignRoles(ctx context.Context, projectID string, memberType string, account string, roles []string) error
}

// OperationStatus is the observed state of an Operation.
type OperationStatus struct {
	Status string

	// Error is the provider reported failure message, if any.
	Error string
}

// ClusterService manages clusters.
//go:generate mockery -name ClusterService -inpkg -testonly
type ClusterService interface {
	// CreateCluster submits a cluster creation request.
	CreateCluster(ctx context.Context, request *container.CreateClusterRequest) (Operation, error)

	// GetOperation returns the current status of an operation.
	GetOperation(ctx context.Context, projectID string, zone string, operationID string) (OperationStatus, error)
}

// BucketIAMService reads and writes bucket access policies.
//go:generate mockery -name BucketIAMService -inpkg -testonly
type BucketIAMService interface {
	// GetPolicy returns the current access policy of a bucket.
	GetPolicy(ctx context.Context, bucket string) (AccessPolicy, error)

	// SetPolicy writes back a complete access policy.
	// The policy etag must match the stored one.
	SetPolicy(ctx context.Context, bucket string, policy AccessPolicy) error
}
