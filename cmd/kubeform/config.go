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

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/1stvamp/kubeform/internal/platform/log"
	"github.com/1stvamp/kubeform/internal/platform/watermill"
	"github.com/1stvamp/kubeform/internal/providers/google"
	"github.com/1stvamp/kubeform/internal/provisioning"
)

// configuration holds any kind of configuration that comes from the outside world and
// is necessary for running the application.
type configuration struct {
	// Log configuration
	Log log.Config

	Google googleConfig

	Provisioning provisioning.Config

	// Defaults are merged under every cluster specification
	Defaults provisioning.ClusterSpec

	Events eventsConfig

	Metrics metricsConfig

	// Timeout for graceful shutdown
	ShutdownTimeout time.Duration
}

type googleConfig struct {
	google.Config `mapstructure:",squash"`

	Operation google.OperationConfig
}

func (c googleConfig) Validate() error {
	var errs error

	if c.Operation.Interval <= 0 {
		errs = errors.Append(errs, errors.New("google operation interval must be positive"))
	}

	if c.Operation.MaxRetries <= 0 {
		errs = errors.Append(errs, errors.New("google operation max retries must be positive"))
	}

	return errs
}

type eventsConfig struct {
	PubSub watermill.PubSubConfig
	Router watermill.RouterConfig
}

type metricsConfig struct {
	Enabled bool
	Address string
}

func (c metricsConfig) Validate() error {
	if c.Enabled && c.Address == "" {
		return errors.New("metrics address is required")
	}

	return nil
}

// Validate validates the configuration.
func (c configuration) Validate() error {
	var errs error

	errs = errors.Append(errs, c.Log.Validate())
	errs = errors.Append(errs, c.Google.Validate())
	errs = errors.Append(errs, c.Provisioning.Validate())
	errs = errors.Append(errs, c.Metrics.Validate())

	return errs
}

// Process post-processes the configuration after loading (before validation).
func (c *configuration) Process() error {
	c.Log.Format = strings.ToLower(c.Log.Format)

	if c.Google.CredentialsFile != "" {
		c.Google.CredentialsFile = os.ExpandEnv(c.Google.CredentialsFile)
	}

	if c.Provisioning.ProjectPrefix != "" && strings.ContainsAny(c.Provisioning.ProjectPrefix, " _") {
		return errors.Errorf("project prefix %q must not contain spaces or underscores", c.Provisioning.ProjectPrefix)
	}

	return nil
}

// Configure configures some defaults in the Viper instance.
func Configure(v *viper.Viper, p *pflag.FlagSet) {
	v.AllowEmptyEnv(true)
	v.SetConfigName(appName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath(fmt.Sprintf("$%s_CONFIG_DIR/", strings.ToUpper(envPrefix)))

	p.String("config", "", "Configuration file")
	_ = v.BindPFlag("config", p.Lookup("config"))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Log configuration
	v.SetDefault("log.format", "logfmt")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.noColor", false)

	// Google configuration
	operation := google.DefaultOperationConfig()
	v.SetDefault("google.credentialsFile", "")
	for _, client := range []string{"resourceManager", "serviceUsage", "billing", "iam", "container", "storage"} {
		v.SetDefault("google.endpoints."+client, "")
	}
	v.SetDefault("google.operation.interval", operation.Interval)
	v.SetDefault("google.operation.maxRetries", operation.MaxRetries)

	// Provisioning configuration
	defaults := provisioning.DefaultConfig()
	v.SetDefault("provisioning.projectPrefix", defaults.ProjectPrefix)
	v.SetDefault("provisioning.baselineServices", defaults.BaselineServices)
	v.SetDefault("provisioning.supportingServices", defaults.SupportingServices)
	v.SetDefault("provisioning.billingService", defaults.BillingService)
	v.SetDefault("provisioning.serviceAccountDisplayName", defaults.ServiceAccountDisplayName)
	v.SetDefault("provisioning.clusterRoles", defaults.ClusterRoles)
	v.SetDefault("provisioning.readerRole", defaults.ReaderRole)
	v.SetDefault("provisioning.writerRole", defaults.WriterRole)
	v.SetDefault("provisioning.poller.initialInterval", defaults.Poller.InitialInterval)
	v.SetDefault("provisioning.poller.multiplier", defaults.Poller.Multiplier)
	v.SetDefault("provisioning.poller.maxInterval", defaults.Poller.MaxInterval)
	v.SetDefault("provisioning.clusterRace.marker", defaults.ClusterRace.Marker)
	v.SetDefault("provisioning.clusterRace.delay", defaults.ClusterRace.Delay)
	v.SetDefault("provisioning.clusterRace.maxAttempts", defaults.ClusterRace.MaxAttempts)

	// Cluster defaults
	v.SetDefault("defaults.zones", []string{"us-central1-a"})
	v.SetDefault("defaults.user", "admin")

	// Event configuration
	v.SetDefault("events.pubSub.outputChannelBuffer", 16)
	v.SetDefault("events.router.closeTimeout", 10*time.Second)

	// Metrics configuration
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", ":9900")

	v.SetDefault("shutdownTimeout", 15*time.Second)
}
