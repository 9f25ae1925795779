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

// Package provisioningadapter connects provisioning milestones to event buses and metrics.
package provisioningadapter

import (
	"github.com/1stvamp/kubeform/internal/provisioning"
)

type eventBus interface {
	Publish(topic string, args ...interface{})
}

// EventBusEvents publishes milestones to an in-process event bus.
// Topics are the milestone names.
type EventBusEvents struct {
	eb eventBus
}

// NewEventBusEvents returns a new EventBusEvents instance.
func NewEventBusEvents(eb eventBus) EventBusEvents {
	return EventBusEvents{
		eb: eb,
	}
}

func (e EventBusEvents) PrerequisitesCreated(event provisioning.PrerequisitesCreatedEvent) {
	e.eb.Publish(provisioning.PrerequisitesCreatedEventName, event)
}

func (e EventBusEvents) BucketPermissionsSet(event provisioning.BucketPermissionsSetEvent) {
	e.eb.Publish(provisioning.BucketPermissionsSetEventName, event)
}

func (e EventBusEvents) ClusterInitialized(event provisioning.ClusterInitializedEvent) {
	e.eb.Publish(provisioning.ClusterInitializedEventName, event)
}

type eventSubscriber interface {
	SubscribeAsync(topic string, fn interface{}, transactional bool) error
}

// EventBusListener registers callbacks for milestones published by EventBusEvents.
type EventBusListener struct {
	eb eventSubscriber
}

// NewEventBusListener returns a new EventBusListener instance.
func NewEventBusListener(eb eventSubscriber) EventBusListener {
	return EventBusListener{
		eb: eb,
	}
}

// NotifyPrerequisitesCreated calls fn whenever the prerequisites of a cluster are created.
func (l EventBusListener) NotifyPrerequisitesCreated(fn func(event provisioning.PrerequisitesCreatedEvent)) error {
	return l.eb.SubscribeAsync(provisioning.PrerequisitesCreatedEventName, fn, false)
}

// NotifyBucketPermissionsSet calls fn whenever bucket permissions are set.
func (l EventBusListener) NotifyBucketPermissionsSet(fn func(event provisioning.BucketPermissionsSetEvent)) error {
	return l.eb.SubscribeAsync(provisioning.BucketPermissionsSetEventName, fn, false)
}

// NotifyClusterInitialized calls fn whenever a cluster creation request is accepted.
func (l EventBusListener) NotifyClusterInitialized(fn func(event provisioning.ClusterInitializedEvent)) error {
	return l.eb.SubscribeAsync(provisioning.ClusterInitializedEventName, fn, false)
}
