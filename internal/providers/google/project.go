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

	"emperror.dev/errors"
	"google.golang.org/api/cloudresourcemanager/v1"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

const organizationResourceType = "organization"

// ProjectService manages projects through the Cloud Resource Manager API.
type ProjectService struct {
	clients    ClientFactory
	operations OperationConfig
}

// NewProjectService returns a new ProjectService.
func NewProjectService(clients ClientFactory, operations OperationConfig) ProjectService {
	return ProjectService{
		clients:    clients,
		operations: operations,
	}
}

// ListProjects lists the projects visible to the caller.
func (s ProjectService) ListProjects(ctx context.Context) ([]provisioning.Project, error) {
	svc, err := s.clients.ResourceManager(ctx)
	if err != nil {
		return nil, err
	}

	var projects []provisioning.Project

	err = svc.Projects.List().Pages(ctx, func(resp *cloudresourcemanager.ListProjectsResponse) error {
		for _, project := range resp.Projects {
			projects = append(projects, provisioning.Project{
				ID:   project.ProjectId,
				Name: project.Name,
			})
		}

		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	return projects, nil
}

// CreateProject starts creating a project under the organization of the request.
func (s ProjectService) CreateProject(
	ctx context.Context,
	request provisioning.ProjectRequest,
) (provisioning.Project, provisioning.Completion, error) {
	svc, err := s.clients.ResourceManager(ctx)
	if err != nil {
		return provisioning.Project{}, nil, err
	}

	project := &cloudresourcemanager.Project{
		ProjectId: request.ID,
		Name:      request.Name,
	}

	if request.OrganizationID != "" {
		project.Parent = &cloudresourcemanager.ResourceId{
			Type: organizationResourceType,
			Id:   request.OrganizationID,
		}
	}

	op, err := svc.Projects.Create(project).Context(ctx).Do()
	if err != nil {
		return provisioning.Project{}, nil, translateError(err)
	}

	completion := operationCompletion{
		config: s.operations,
		status: func(ctx context.Context) (bool, error) {
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
		},
	}

	return provisioning.Project{ID: request.ID, Name: request.Name}, completion, nil
}
