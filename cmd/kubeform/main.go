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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// appName is an identifier-like name used anywhere this app needs to be identified.
	appName = "kubeform"

	// friendlyAppName is the visible name of the application.
	friendlyAppName = "Kubeform"

	// envPrefix is prepended to environment variables when processing configuration.
	envPrefix = "kubeform"
)

// Provisioned by ldflags
// nolint: gochecknoglobals
var (
	version    string
	commitHash string
	buildDate  string
)

func main() {
	if err := newRootCommand(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   friendlyAppName + " provisions GKE clusters from a declarative specification.",
		Version: version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version %s (%s) built on %s\n", friendlyAppName, version, commitHash, buildDate))

	Configure(v, rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		NewCreateCommand(v),
		NewTranslateCommand(v),
	)

	return rootCmd
}
