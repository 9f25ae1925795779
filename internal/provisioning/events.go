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
	"google.golang.org/api/container/v1"
)

// Milestone event names
const (
	PrerequisitesCreatedEventName = "prerequisites-created"
	BucketPermissionsSetEventName = "bucket-permissions-set"
	ClusterInitializedEventName   = "cluster-initialized"
)

// ProviderName identifies the provider in milestone events.
const ProviderName = "gce"

// PrerequisitesCreatedEvent is emitted once the identity, billing and account setup chain completed.
type PrerequisitesCreatedEvent struct {
	Provider      string   `json:"provider"`
	Prerequisites []string `json:"prerequisites"`
}

// BucketPermissionsSetEvent is emitted once bucket grants completed.
type BucketPermissionsSetEvent struct {
	ReadAccess  []string `json:"readAccess"`
	WriteAccess []string `json:"writeAccess"`
}

// ClusterInitializedEvent is emitted once the cluster creation request is accepted.
type ClusterInitializedEvent struct {
	KubernetesCluster *container.CreateClusterRequest `json:"kubernetesCluster"`
}

// Events is notified as provisioning milestones complete.
type Events interface {
	// PrerequisitesCreated is called after the account setup chain.
	PrerequisitesCreated(event PrerequisitesCreatedEvent)

	// BucketPermissionsSet is called after bucket grants.
	BucketPermissionsSet(event BucketPermissionsSetEvent)

	// ClusterInitialized is called after cluster submission.
	ClusterInitialized(event ClusterInitializedEvent)
}

// NopEvents discards every event.
type NopEvents struct{}

func (NopEvents) PrerequisitesCreated(PrerequisitesCreatedEvent) {}

func (NopEvents) BucketPermissionsSet(BucketPermissionsSetEvent) {}

func (NopEvents) ClusterInitialized(ClusterInitializedEvent) {}

// MultiEvents forwards every event to each of its members in order.
type MultiEvents []Events

func (m MultiEvents) PrerequisitesCreated(event PrerequisitesCreatedEvent) {
	for _, e := range m {
		e.PrerequisitesCreated(event)
	}
}

func (m MultiEvents) BucketPermissionsSet(event BucketPermissionsSetEvent) {
	for _, e := range m {
		e.BucketPermissionsSet(event)
	}
}

func (m MultiEvents) ClusterInitialized(event ClusterInitializedEvent) {
	for _, e := range m {
		e.ClusterInitialized(event)
	}
}
