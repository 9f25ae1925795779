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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

func TestMetricsEvents(t *testing.T) {
	registry := prometheus.NewRegistry()

	events, err := NewMetricsEvents(registry)
	require.NoError(t, err)

	var sink provisioning.Events = provisioning.MultiEvents{events, provisioning.NopEvents{}}

	sink.PrerequisitesCreated(provisioning.PrerequisitesCreatedEvent{Provider: provisioning.ProviderName})
	sink.BucketPermissionsSet(provisioning.BucketPermissionsSetEvent{
		ReadAccess:  []string{"bucket-one", "bucket-two"},
		WriteAccess: []string{"uploads"},
	})
	sink.ClusterInitialized(provisioning.ClusterInitializedEvent{})

	assert.Equal(t, 1.0, testutil.ToFloat64(events.milestones.WithLabelValues("prerequisites-created", "gce")))
	assert.Equal(t, 1.0, testutil.ToFloat64(events.milestones.WithLabelValues("bucket-permissions-set", "gce")))
	assert.Equal(t, 1.0, testutil.ToFloat64(events.milestones.WithLabelValues("cluster-initialized", "gce")))
	assert.Equal(t, 2.0, testutil.ToFloat64(events.bucketGrants.WithLabelValues("read")))
	assert.Equal(t, 1.0, testutil.ToFloat64(events.bucketGrants.WithLabelValues("write")))
}

func TestNewMetricsEvents_AlreadyRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()

	_, err := NewMetricsEvents(registry)
	require.NoError(t, err)

	_, err = NewMetricsEvents(registry)
	assert.Error(t, err)
}
