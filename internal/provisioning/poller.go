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
	"context"

	"emperror.dev/errors"
	"github.com/jonboulle/clockwork"

	"github.com/1stvamp/kubeform/pkg/backoff"
)

// Operation statuses
const (
	OperationStatusUnspecified  = "STATUS_UNSPECIFIED"
	OperationStatusProvisioning = "PROVISIONING"
	OperationStatusReconciling  = "RECONCILING"
	OperationStatusRunning      = "RUNNING"
	OperationStatusDone         = "DONE"
	OperationStatusAborting     = "ABORTING"
)

// IsOperationPending reports whether an operation with the given status is still in progress.
func IsOperationPending(status string) bool {
	switch status {
	case "", OperationStatusProvisioning, OperationStatusReconciling, OperationStatusUnspecified, OperationStatusRunning:
		return true
	default:
		return false
	}
}

// ReadinessPoller waits for a cluster operation to reach a terminal status.
//
// Polls are separated by an exponential backoff without jitter. There is no attempt limit:
// the poller returns on a terminal status, a status query failure or context cancellation.
type ReadinessPoller struct {
	clusters ClusterService
	config   PollerConfig
	clock    clockwork.Clock
	logger   Logger
}

// NewReadinessPoller returns a new ReadinessPoller.
func NewReadinessPoller(clusters ClusterService, config PollerConfig, clock clockwork.Clock, logger Logger) ReadinessPoller {
	return ReadinessPoller{
		clusters: clusters,
		config:   config,
		clock:    clock,
		logger:   logger,
	}
}

// Wait polls the operation until it is no longer pending.
//
// A terminal status that carries a provider error, or an aborting operation, is reported as a failure.
func (p ReadinessPoller) Wait(ctx context.Context, projectID string, operation Operation) (OperationStatus, error) {
	fields := map[string]interface{}{"project": projectID, "zone": operation.Zone, "operation": operation.Name}

	schedule := backoff.NewExponential(backoff.ExponentialBackoffConfig{
		InitialInterval: p.config.InitialInterval,
		Multiplier:      p.config.Multiplier,
		MaxInterval:     p.config.MaxInterval,
	})

	for {
		status, err := p.clusters.GetOperation(ctx, projectID, operation.Zone, operation.Name)
		if err != nil {
			return status, p.fail("failed to check cluster status of operation "+operation.Name, err, fields)
		}

		p.logger.Info("cluster status is "+status.Status, fields)

		if !IsOperationPending(status.Status) {
			if status.Error != "" {
				return status, p.fail("cluster operation "+operation.Name+" failed", errors.New(status.Error), fields)
			}

			if status.Status == OperationStatusAborting {
				return status, p.fail("cluster operation "+operation.Name+" failed", errors.New("operation is aborting"), fields)
			}

			return status, nil
		}

		select {
		case <-p.clock.After(schedule.Next()):
		case <-ctx.Done():
			return status, errors.WrapIf(ctx.Err(), "waiting for cluster operation interrupted")
		}
	}
}

func (p ReadinessPoller) fail(message string, err error, fields map[string]interface{}) error {
	stepErr := &StepError{
		Step:    StepWaitForCluster,
		Message: message,
		Err:     err,
	}

	p.logger.Error(stepErr.Error(), fields)

	return errors.WithStack(stepErr)
}
