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
	"time"

	"emperror.dev/errors"
)

// Config holds the provisioning constants injected into the workflow.
type Config struct {
	// ProjectPrefix is prepended to the cluster name to derive the project name.
	ProjectPrefix string

	// BaselineServices are enabled before billing is associated.
	BaselineServices []string

	// SupportingServices are enabled after billing is associated.
	SupportingServices []string

	// BillingService is enabled right before the billing account is associated.
	BillingService string

	// ServiceAccountDisplayName labels the cluster service account.
	ServiceAccountDisplayName string

	// ClusterRoles are assigned to the cluster service account on the project.
	ClusterRoles []string

	// ReaderRole is granted on readable buckets.
	ReaderRole string

	// WriterRole is granted on writable buckets.
	WriterRole string

	Poller      PollerConfig
	ClusterRace ClusterRaceConfig
}

// PollerConfig configures the readiness poller backoff.
type PollerConfig struct {
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
}

// ClusterRaceConfig configures how cluster creation recovers from the platform still initializing.
type ClusterRaceConfig struct {
	// Marker is looked up in cluster creation failures.
	Marker string

	// Delay is the pause between attempts.
	Delay time.Duration

	// MaxAttempts bounds the number of creation attempts.
	MaxAttempts int
}

// DefaultConfig returns the compiled default provisioning configuration.
func DefaultConfig() Config {
	return Config{
		ProjectPrefix: "npme-",
		BaselineServices: []string{
			"servicemanagement.googleapis.com",
			"cloudapis.googleapis.com",
		},
		SupportingServices: []string{
			"compute.googleapis.com",
			"container.googleapis.com",
			"storage-component.googleapis.com",
			"storage-api.googleapis.com",
		},
		BillingService:            "cloudbilling.googleapis.com",
		ServiceAccountDisplayName: "npme kubernetes service account",
		ClusterRoles: []string{
			"roles/logging.privateLogViewer",
			"roles/monitoring.metricWriter",
			"roles/monitoring.viewer",
			"roles/storage.admin",
			"roles/storage.objectAdmin",
			"roles/storage.objectCreator",
			"roles/storage.objectViewer",
		},
		ReaderRole: "roles/storage.legacyBucketReader",
		WriterRole: "roles/storage.legacyBucketWriter",
		Poller: PollerConfig{
			InitialInterval: 5 * time.Second,
			Multiplier:      1.5,
			MaxInterval:     60 * time.Second,
		},
		ClusterRace: ClusterRaceConfig{
			Marker:      "wait a few minutes",
			Delay:       60 * time.Second,
			MaxAttempts: 30,
		},
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	var errs error

	if c.BillingService == "" {
		errs = errors.Append(errs, errors.New("billing service is required"))
	}

	if c.ReaderRole == "" {
		errs = errors.Append(errs, errors.New("bucket reader role is required"))
	}

	if c.WriterRole == "" {
		errs = errors.Append(errs, errors.New("bucket writer role is required"))
	}

	if c.Poller.InitialInterval <= 0 {
		errs = errors.Append(errs, errors.New("poller initial interval must be positive"))
	}

	if c.Poller.Multiplier < 1 {
		errs = errors.Append(errs, errors.New("poller multiplier must be at least 1"))
	}

	if c.ClusterRace.Marker == "" {
		errs = errors.Append(errs, errors.New("cluster race marker is required"))
	}

	if c.ClusterRace.MaxAttempts <= 0 {
		errs = errors.Append(errs, errors.New("cluster race max attempts must be positive"))
	}

	return errs
}
