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

package backoff

import (
	"time"
)

// ExponentialBackoffConfig configures an exponential backoff schedule.
type ExponentialBackoffConfig struct {
	// InitialInterval is the first wait returned by the schedule.
	InitialInterval time.Duration

	// Multiplier is applied to the current interval after every wait.
	Multiplier float64

	// MaxInterval caps the interval. Zero means no cap.
	MaxInterval time.Duration
}

// Exponential is a jitter-free exponential backoff schedule.
//
// It has no attempt limit: callers decide when to stop asking for the next interval.
type Exponential struct {
	config  ExponentialBackoffConfig
	current time.Duration
}

// NewExponential returns a new Exponential schedule.
func NewExponential(config ExponentialBackoffConfig) *Exponential {
	return &Exponential{
		config:  config,
		current: config.InitialInterval,
	}
}

// Next returns the interval to wait before the next attempt and advances the schedule.
func (e *Exponential) Next() time.Duration {
	next := e.current

	e.current = time.Duration(float64(e.current) * e.config.Multiplier)
	if e.config.MaxInterval > 0 && e.current > e.config.MaxInterval {
		e.current = e.config.MaxInterval
	}

	return next
}

// Reset restarts the schedule from the initial interval.
func (e *Exponential) Reset() {
	e.current = e.config.InitialInterval
}
