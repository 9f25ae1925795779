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
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"emperror.dev/emperror"
	"emperror.dev/errors"
	evbus "github.com/asaskevich/EventBus"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/1stvamp/kubeform/internal/platform/buildinfo"
	"github.com/1stvamp/kubeform/internal/platform/log"
	"github.com/1stvamp/kubeform/internal/platform/watermill"
	"github.com/1stvamp/kubeform/internal/providers/google"
	"github.com/1stvamp/kubeform/internal/provisioning"
	"github.com/1stvamp/kubeform/internal/provisioning/provisioningadapter"
)

type specOptions struct {
	specFile string
}

func addSpecFlag(cmd *cobra.Command, options *specOptions) {
	cmd.Flags().StringVarP(&options.specFile, "spec", "s", "", "Cluster specification file in YAML or JSON (- reads stdin)")
	_ = cmd.MarkFlagRequired("spec")
}

// NewCreateCommand creates a new cobra.Command for `kubeform create`.
func NewCreateCommand(v *viper.Viper) *cobra.Command {
	options := specOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a cluster with its project, identity and storage grants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			app, err := newApplication(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return runCreate(app, options, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addSpecFlag(cmd, &options)

	return cmd
}

func runCreate(app *application, options specOptions, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	defer emperror.HandleRecover(app.errorHandler)

	logger := app.logger

	logger.Info("starting provisioning", app.buildInfo.Fields())

	spec, err := readSpec(options.specFile, stdin)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clients, err := google.NewClientFactory(ctx, app.config.Google.Config)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	metricsEvents, err := provisioningadapter.NewMetricsEvents(registry)
	if err != nil {
		return err
	}

	eventBus := evbus.New()

	if err := reportProgress(provisioningadapter.NewEventBusListener(eventBus), stderr); err != nil {
		return err
	}

	pubSub := watermill.NewPubSub(app.config.Events.PubSub, logger)
	defer pubSub.Close()

	router, err := watermill.NewRouter(app.config.Events.Router, logger)
	if err != nil {
		return err
	}

	milestoneHandler := provisioningadapter.NewMilestoneLogHandler(logger)
	for _, topic := range provisioningadapter.MilestoneTopics() {
		router.AddNoPublisherHandler("log-"+topic, topic, pubSub, milestoneHandler)
	}

	workflow := provisioning.NewWorkflow(
		provisioning.Collaborators{
			Projects: google.NewProjectService(clients, app.config.Google.Operation),
			Identity: google.NewIdentityService(clients, app.config.Google.Operation),
			Clusters: google.NewClusterService(clients),
			Buckets:  google.NewBucketIAMService(clients),
		},
		app.config.Provisioning,
		provisioning.WithDefaults(app.config.Defaults),
		provisioning.WithLogger(logger),
		provisioning.WithEvents(provisioning.MultiEvents{
			provisioningadapter.NewEventBusEvents(eventBus),
			provisioningadapter.NewMessageEvents(pubSub, app.errorHandler),
			metricsEvents,
		}),
	)

	var (
		result provisioning.ClusterSpec
		runErr error
	)

	var group run.Group

	// Milestone router
	group.Add(
		func() error {
			return router.Run(context.Background())
		},
		func(e error) {
			_ = router.Close()
		},
	)

	// Provisioning
	group.Add(
		func() error {
			select {
			case <-router.Running():
			case <-ctx.Done():
				return ctx.Err()
			}

			result, runErr = workflow.Create(ctx, spec)

			return runErr
		},
		func(e error) {
			cancel()
		},
	)

	// Metrics and version endpoint
	if app.config.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.Handle("/version", buildinfo.Handler(app.buildInfo))

		server := &http.Server{
			Addr:     app.config.Metrics.Address,
			Handler:  mux,
			ErrorLog: log.NewErrorStandardLogger(logger),
		}

		group.Add(
			func() error {
				logger.Info("listening on address", map[string]interface{}{"address": server.Addr})

				err := server.ListenAndServe()
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}

				return errors.WrapIf(err, "metrics server failed")
			},
			func(e error) {
				ctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
				defer cancel()

				_ = server.Shutdown(ctx)
			},
		)
	}

	// Setup signal handler
	{
		var (
			cancelInterrupt = make(chan struct{})
			ch              = make(chan os.Signal, 2)
		)
		defer close(ch)

		group.Add(
			func() error {
				signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

				select {
				case sig := <-ch:
					logger.Info("captured signal", map[string]interface{}{"signal": sig})
				case <-cancelInterrupt:
				}

				return nil
			},
			func(e error) {
				close(cancelInterrupt)
				signal.Stop(ch)
			},
		)
	}

	err = group.Run()
	eventBus.WaitAsync()

	if err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}

	return writeYAML(stdout, result)
}

// reportProgress prints milestones as they are reached.
func reportProgress(listener provisioningadapter.EventBusListener, w io.Writer) error {
	var errs error

	errs = errors.Append(errs, listener.NotifyPrerequisitesCreated(func(event provisioning.PrerequisitesCreatedEvent) {
		_, _ = fmt.Fprintf(w, "prerequisites created on %s: %s\n", event.Provider, strings.Join(event.Prerequisites, ", "))
	}))

	errs = errors.Append(errs, listener.NotifyBucketPermissionsSet(func(event provisioning.BucketPermissionsSetEvent) {
		_, _ = fmt.Fprintf(
			w,
			"bucket permissions set: %d readable, %d writable\n",
			len(event.ReadAccess),
			len(event.WriteAccess),
		)
	}))

	errs = errors.Append(errs, listener.NotifyClusterInitialized(func(event provisioning.ClusterInitializedEvent) {
		name := ""
		if event.KubernetesCluster != nil && event.KubernetesCluster.Cluster != nil {
			name = event.KubernetesCluster.Cluster.Name
		}

		_, _ = fmt.Fprintf(w, "cluster %s initialized, waiting for it to become ready\n", name)
	}))

	return errors.WrapIf(errs, "failed to subscribe to milestones")
}

// NewTranslateCommand creates a new cobra.Command for `kubeform translate`.
func NewTranslateCommand(v *viper.Viper) *cobra.Command {
	options := specOptions{}

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Print the cluster creation request without calling any provider",
		Long: "Print the cluster creation request without calling any provider.\n\n" +
			"The basic auth password is left empty unless the specification sets one: " +
			"create generates it when the cluster is submitted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			app, err := newApplication(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return runTranslate(app, options, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	addSpecFlag(cmd, &options)

	return cmd
}

func runTranslate(app *application, options specOptions, stdin io.Reader, stdout io.Writer) error {
	spec, err := readSpec(options.specFile, stdin)
	if err != nil {
		return err
	}

	workflow := provisioning.NewWorkflow(
		provisioning.Collaborators{},
		app.config.Provisioning,
		provisioning.WithDefaults(app.config.Defaults),
		provisioning.WithLogger(app.logger),
	)

	preview, err := workflow.Translate(spec)
	if err != nil {
		return err
	}

	return writeYAML(stdout, preview)
}
