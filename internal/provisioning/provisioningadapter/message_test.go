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
	"context"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/subscriber"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"logur.dev/logur"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

type recordingErrorHandler struct {
	errs []error
}

func (h *recordingErrorHandler) Handle(err error) {
	h.errs = append(h.errs, err)
}

func TestMessageEvents(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	messages, err := pubsub.Subscribe(context.Background(), provisioning.BucketPermissionsSetEventName)
	require.NoError(t, err)

	errorHandler := &recordingErrorHandler{}
	events := NewMessageEvents(pubsub, errorHandler)

	events.BucketPermissionsSet(provisioning.BucketPermissionsSetEvent{
		ReadAccess:  []string{"bucket-one", "bucket-two"},
		WriteAccess: []string{"uploads"},
	})

	received, all := subscriber.BulkRead(messages, 1, time.Second)
	if !all {
		t.Fatal("no message received")
	}

	assert.Equal(t, `{"readAccess":["bucket-one","bucket-two"],"writeAccess":["uploads"]}`, string(received[0].Payload))
	assert.Equal(t, provisioning.BucketPermissionsSetEventName, received[0].Metadata.Get(EventMetadataKey))
	assert.Empty(t, errorHandler.errs)
}

type failingPublisher struct{}

func (failingPublisher) Publish(topic string, messages ...*message.Message) error {
	return errors.New("publisher closed")
}

func (failingPublisher) Close() error {
	return nil
}

func TestMessageEvents_PublishFailure(t *testing.T) {
	errorHandler := &recordingErrorHandler{}
	events := NewMessageEvents(failingPublisher{}, errorHandler)

	events.ClusterInitialized(provisioning.ClusterInitializedEvent{})

	require.Len(t, errorHandler.errs, 1)
	assert.EqualError(t, errorHandler.errs[0], "failed to dispatch event: publisher closed")
	assert.Equal(t, []interface{}{"event", "cluster-initialized"}, errors.GetDetails(errorHandler.errs[0]))
}

func TestNewMilestoneLogHandler(t *testing.T) {
	logger := &logur.TestLogger{}

	msg := message.NewMessage("message-id", []byte("{}"))
	msg.Metadata.Set(EventMetadataKey, provisioning.PrerequisitesCreatedEventName)

	require.NoError(t, NewMilestoneLogHandler(logger)(msg))

	event := logger.LastEvent()
	require.NotNil(t, event)
	assert.Equal(t, "provisioning milestone reached", event.Line)
	assert.Equal(t, "prerequisites-created", event.Fields["milestone"])
	assert.Equal(t, "message-id", event.Fields["messageId"])
}
