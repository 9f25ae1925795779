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

	"google.golang.org/api/container/v1"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

// ClusterService manages clusters through the Kubernetes Engine API.
type ClusterService struct {
	clients ClientFactory
}

// NewClusterService returns a new ClusterService.
func NewClusterService(clients ClientFactory) ClusterService {
	return ClusterService{
		clients: clients,
	}
}

// CreateCluster submits a cluster creation request to the zone of the request.
func (s ClusterService) CreateCluster(ctx context.Context, request *container.CreateClusterRequest) (provisioning.Operation, error) {
	svc, err := s.clients.Container(ctx)
	if err != nil {
		return provisioning.Operation{}, err
	}

	op, err := svc.Projects.Zones.Clusters.Create(request.ProjectId, request.Zone, request).Context(ctx).Do()
	if err != nil {
		return provisioning.Operation{}, translateError(err)
	}

	zone := op.Zone
	if zone == "" {
		zone = request.Zone
	}

	return provisioning.Operation{
		Name: op.Name,
		Zone: zone,
	}, nil
}

// GetOperation returns the current status of a cluster operation.
func (s ClusterService) GetOperation(
	ctx context.Context,
	projectID string,
	zone string,
	operationID string,
) (provisioning.OperationStatus, error) {
	svc, err := s.clients.Container(ctx)
	if err != nil {
		return provisioning.OperationStatus{}, err
	}

	op, err := svc.Projects.Zones.Operations.Get(projectID, zone, operationID).Context(ctx).Do()
	if err != nil {
		return provisioning.OperationStatus{}, translateError(err)
	}

	return provisioning.OperationStatus{
		Status: op.Status,
		Error:  op.StatusMessage,
	}, nil
}
