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

package watermill

import (
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	watermilllog "logur.dev/integration/watermill"
	"logur.dev/logur"
)

// PubSubConfig configures the in-process pub/sub.
type PubSubConfig struct {
	// OutputChannelBuffer is the buffer size of each subscriber channel.
	OutputChannelBuffer int64
}

// NewPubSub returns a new in-process PubSub acting both as publisher and subscriber.
//
// Messages published before a subscription exists are dropped.
func NewPubSub(config PubSubConfig, logger logur.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: config.OutputChannelBuffer,
		},
		watermilllog.New(logur.WithFields(logger, map[string]interface{}{"component": "watermill"})),
	)
}
