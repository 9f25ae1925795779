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

package provisioningadapter

import (
	"encoding/json"

	"emperror.dev/errors"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

// EventMetadataKey is the message metadata key holding the milestone name.
const EventMetadataKey = "event"

// ErrorHandler handles an error.
type ErrorHandler interface {
	Handle(err error)
}

// MessageEvents publishes milestones as JSON messages.
// Each milestone goes to the topic named after it.
type MessageEvents struct {
	publisher    message.Publisher
	errorHandler ErrorHandler
}

// NewMessageEvents returns a new MessageEvents instance.
func NewMessageEvents(publisher message.Publisher, errorHandler ErrorHandler) MessageEvents {
	return MessageEvents{
		publisher:    publisher,
		errorHandler: errorHandler,
	}
}

func (e MessageEvents) PrerequisitesCreated(event provisioning.PrerequisitesCreatedEvent) {
	e.publish(provisioning.PrerequisitesCreatedEventName, event)
}

func (e MessageEvents) BucketPermissionsSet(event provisioning.BucketPermissionsSetEvent) {
	e.publish(provisioning.BucketPermissionsSetEventName, event)
}

func (e MessageEvents) ClusterInitialized(event provisioning.ClusterInitializedEvent) {
	e.publish(provisioning.ClusterInitializedEventName, event)
}

func (e MessageEvents) publish(name string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		e.errorHandler.Handle(errors.WithDetails(errors.WrapIf(err, "failed to marshal event"), "event", name))

		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(EventMetadataKey, name)

	if err := e.publisher.Publish(name, msg); err != nil {
		e.errorHandler.Handle(errors.WithDetails(errors.WrapIf(err, "failed to dispatch event"), "event", name))
	}
}

// Logger is the logging interface used by the milestone log handler.
type Logger interface {
	Info(msg string, fields ...map[string]interface{})
}

// NewMilestoneLogHandler returns a message handler logging each received milestone.
func NewMilestoneLogHandler(logger Logger) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		logger.Info("provisioning milestone reached", map[string]interface{}{
			"milestone": msg.Metadata.Get(EventMetadataKey),
			"messageId": msg.UUID,
		})

		return nil
	}
}

// MilestoneTopics lists the topics MessageEvents publishes to.
func MilestoneTopics() []string {
	return []string{
		provisioning.PrerequisitesCreatedEventName,
		provisioning.BucketPermissionsSetEventName,
		provisioning.ClusterInitializedEventName,
	}
}
