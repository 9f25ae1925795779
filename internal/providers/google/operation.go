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
	"time"

	"emperror.dev/errors"

	"github.com/1stvamp/kubeform/pkg/backoff"
)

// OperationConfig configures how long-running Google operations are awaited.
type OperationConfig struct {
	Interval   time.Duration
	MaxRetries int
}

// DefaultOperationConfig returns the default operation polling configuration.
func DefaultOperationConfig() OperationConfig {
	return OperationConfig{
		Interval:   2 * time.Second,
		MaxRetries: 300,
	}
}

var errOperationPending = errors.NewPlain("operation is still pending")

// operationStatus is polled until the operation is done.
// A non-nil error of a done operation is its failure.
type operationStatus func(ctx context.Context) (done bool, err error)

func waitForOperation(ctx context.Context, config OperationConfig, status operationStatus) error {
	policy := backoff.NewConstantBackoffPolicy(backoff.ConstantBackoffConfig{
		Delay:      config.Interval,
		MaxRetries: config.MaxRetries,
	})

	var lastErr error

	err := backoff.RetryContext(ctx, func() error {
		done, err := status(ctx)
		if err != nil {
			lastErr = err

			return backoff.MarkErrorPermanent(err)
		}

		if !done {
			return errOperationPending
		}

		return nil
	}, policy)
	if err != nil {
		if lastErr != nil {
			return lastErr
		}

		return errors.WrapIf(err, "operation did not complete")
	}

	return nil
}

// operationCompletion awaits an operation on demand.
type operationCompletion struct {
	config OperationConfig
	status operationStatus
}

func (c operationCompletion) Wait(ctx context.Context) error {
	return waitForOperation(ctx, c.config, c.status)
}
