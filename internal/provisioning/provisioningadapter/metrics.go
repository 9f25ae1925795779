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
	"emperror.dev/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

const metricsNamespace = "kubeform"

// MetricsEvents counts provisioning milestones.
type MetricsEvents struct {
	milestones   *prometheus.CounterVec
	bucketGrants *prometheus.CounterVec
}

// NewMetricsEvents returns a new MetricsEvents instance with its collectors registered.
func NewMetricsEvents(registerer prometheus.Registerer) (MetricsEvents, error) {
	m := MetricsEvents{
		milestones: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "provisioning",
				Name:      "milestones_total",
				Help:      "Number of provisioning milestones reached.",
			},
			[]string{"milestone", "provider"},
		),
		bucketGrants: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "provisioning",
				Name:      "bucket_grants_total",
				Help:      "Number of bucket access grants.",
			},
			[]string{"access"},
		),
	}

	for _, collector := range []prometheus.Collector{m.milestones, m.bucketGrants} {
		if err := registerer.Register(collector); err != nil {
			return m, errors.WrapIf(err, "failed to register provisioning metrics")
		}
	}

	return m, nil
}

func (m MetricsEvents) PrerequisitesCreated(event provisioning.PrerequisitesCreatedEvent) {
	m.milestones.WithLabelValues(provisioning.PrerequisitesCreatedEventName, event.Provider).Inc()
}

func (m MetricsEvents) BucketPermissionsSet(event provisioning.BucketPermissionsSetEvent) {
	m.milestones.WithLabelValues(provisioning.BucketPermissionsSetEventName, provisioning.ProviderName).Inc()
	m.bucketGrants.WithLabelValues("read").Add(float64(len(event.ReadAccess)))
	m.bucketGrants.WithLabelValues("write").Add(float64(len(event.WriteAccess)))
}

func (m MetricsEvents) ClusterInitialized(provisioning.ClusterInitializedEvent) {
	m.milestones.WithLabelValues(provisioning.ClusterInitializedEventName, provisioning.ProviderName).Inc()
}
