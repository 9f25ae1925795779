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
	"io"
	"io/ioutil"

	"emperror.dev/emperror"
	"emperror.dev/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"logur.dev/logur"
	"sigs.k8s.io/yaml"

	"github.com/1stvamp/kubeform/internal/platform/buildinfo"
	"github.com/1stvamp/kubeform/internal/platform/errorhandler"
	"github.com/1stvamp/kubeform/internal/platform/log"
	"github.com/1stvamp/kubeform/internal/provisioning"
)

// application holds the components shared by every command.
type application struct {
	config       configuration
	logger       logur.Logger
	errorHandler emperror.ErrorHandler
	buildInfo    buildinfo.BuildInfo
}

// loadConfiguration reads and post-processes the configuration.
func loadConfiguration(v *viper.Viper) (configuration, bool, error) {
	var config configuration

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	}

	err := v.ReadInConfig()
	_, configFileNotFound := err.(viper.ConfigFileNotFoundError)
	if err != nil && !configFileNotFound {
		return config, false, errors.WrapIf(err, "failed to read configuration")
	}

	err = v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return config, configFileNotFound, errors.WrapIf(err, "failed to unmarshal configuration")
	}

	if err := config.Process(); err != nil {
		return config, configFileNotFound, errors.WrapIf(err, "failed to process configuration")
	}

	return config, configFileNotFound, nil
}

func newApplication(v *viper.Viper, stderr io.Writer) (*application, error) {
	config, configFileNotFound, err := loadConfiguration(v)
	if err != nil {
		return nil, err
	}

	// Create logger (first thing after configuration loading)
	logger := log.NewLoggerWithOutput(config.Log, stderr)

	// Provide some basic context to all log lines
	logger = log.WithFields(logger, map[string]interface{}{"application": appName})

	log.SetStandardLogger(logger)

	if configFileNotFound {
		logger.Warn("configuration file not found")
	}

	if err := config.Validate(); err != nil {
		logger.Error(err.Error())

		return nil, errors.WrapIf(err, "invalid configuration")
	}

	return &application{
		config:       config,
		logger:       logger,
		errorHandler: errorhandler.New(logger),
		buildInfo:    buildinfo.New(version, commitHash, buildDate),
	}, nil
}

// readSpec reads a YAML or JSON cluster specification from a file or from stdin when path is "-".
func readSpec(path string, stdin io.Reader) (provisioning.ClusterSpec, error) {
	var spec provisioning.ClusterSpec

	var (
		content []byte
		err     error
	)

	if path == "-" {
		content, err = ioutil.ReadAll(stdin)
	} else {
		content, err = ioutil.ReadFile(path)
	}
	if err != nil {
		return spec, errors.WrapIfWithDetails(err, "failed to read cluster specification", "path", path)
	}

	if err := yaml.UnmarshalStrict(content, &spec); err != nil {
		return spec, errors.WrapIfWithDetails(err, "failed to parse cluster specification", "path", path)
	}

	return spec, nil
}

// writeYAML renders v as YAML.
func writeYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.WrapIf(err, "failed to render output")
	}

	_, err = w.Write(out)

	return errors.WrapIf(err, "failed to write output")
}
