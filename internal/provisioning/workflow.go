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

	"dario.cat/mergo"
	"emperror.dev/errors"
	"github.com/jonboulle/clockwork"
	"google.golang.org/api/container/v1"
	"logur.dev/logur"
)

// Collaborators are the provider clients the workflow drives.
type Collaborators struct {
	Projects ProjectService
	Identity IdentityService
	Clusters ClusterService
	Buckets  BucketIAMService
}

// Workflow provisions a cluster and its supporting resources in a fixed order.
type Workflow struct {
	steps    Steps
	poller   ReadinessPoller
	config   Config
	defaults ClusterSpec
	events   Events
	logger   Logger
}

type workflowOptions struct {
	defaults   ClusterSpec
	events     Events
	logger     Logger
	clock      clockwork.Clock
	translator Translator
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(o *workflowOptions)

// WithDefaults sets the spec that user specs are merged over.
func WithDefaults(defaults ClusterSpec) WorkflowOption {
	return func(o *workflowOptions) {
		o.defaults = defaults
	}
}

// WithEvents sets the milestone event listener.
func WithEvents(events Events) WorkflowOption {
	return func(o *workflowOptions) {
		o.events = events
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) WorkflowOption {
	return func(o *workflowOptions) {
		o.logger = logger
	}
}

// WithClock sets the clock used for the pauses between cluster creation attempts and readiness polls.
func WithClock(clock clockwork.Clock) WorkflowOption {
	return func(o *workflowOptions) {
		o.clock = clock
	}
}

// WithTranslator sets the cluster config translator.
func WithTranslator(translator Translator) WorkflowOption {
	return func(o *workflowOptions) {
		o.translator = translator
	}
}

// NewWorkflow returns a new Workflow.
func NewWorkflow(collaborators Collaborators, config Config, opts ...WorkflowOption) Workflow {
	options := workflowOptions{
		events:     NopEvents{},
		logger:     logur.NewNoopLogger(),
		clock:      clockwork.NewRealClock(),
		translator: NewTranslator(),
	}

	for _, opt := range opts {
		opt(&options)
	}

	return Workflow{
		steps: NewSteps(
			collaborators.Projects,
			collaborators.Identity,
			collaborators.Clusters,
			collaborators.Buckets,
			options.translator,
			config,
			options.clock,
			options.logger,
		),
		poller:   NewReadinessPoller(collaborators.Clusters, config.Poller, options.clock, options.logger),
		config:   config,
		defaults: options.defaults,
		events:   options.events,
		logger:   options.logger,
	}
}

// MergeSpec fills the unset fields of spec from defaults.
func MergeSpec(defaults ClusterSpec, spec ClusterSpec) (ClusterSpec, error) {
	merged := spec

	if err := mergo.Merge(&merged, defaults); err != nil {
		return spec, errors.WrapIf(err, "failed to merge cluster specification with defaults")
	}

	return merged, nil
}

// Create provisions the cluster described by spec.
//
// The first failing step aborts the run; steps already applied are left in place.
// The returned spec carries every value derived up to the point of return.
func (w Workflow) Create(ctx context.Context, spec ClusterSpec) (ClusterSpec, error) {
	spec, err := MergeSpec(w.defaults, spec)
	if err != nil {
		return spec, err
	}

	if err := spec.Validate(); err != nil {
		w.logger.Error(err.Error(), map[string]interface{}{"cluster": spec.Name})

		return spec, err
	}

	spec, _, err = w.steps.EnsureProject(ctx, spec)
	if err != nil {
		return spec, err
	}

	if err := w.steps.EnableServices(ctx, spec, w.config.BaselineServices); err != nil {
		return spec, err
	}

	if err := w.steps.FixBilling(ctx, spec); err != nil {
		return spec, err
	}

	if err := w.steps.EnableServices(ctx, spec, w.config.SupportingServices); err != nil {
		return spec, err
	}

	spec, _, err = w.steps.CreateClusterService(ctx, spec)
	if err != nil {
		return spec, err
	}

	spec, err = w.steps.GetAccountCredentials(ctx, spec)
	if err != nil {
		return spec, err
	}

	if err := w.steps.SetRoles(ctx, spec); err != nil {
		return spec, err
	}

	w.events.PrerequisitesCreated(PrerequisitesCreatedEvent{
		Provider: ProviderName,
		Prerequisites: []string{
			StepEnsureProject,
			StepEnableServices,
			StepFixBilling,
			StepCreateClusterService,
			StepGetAccountCredentials,
			StepSetRoles,
		},
	})

	if err := w.steps.GrantBucketAccess(ctx, spec); err != nil {
		return spec, err
	}

	w.events.BucketPermissionsSet(BucketPermissionsSetEvent{
		ReadAccess:  spec.ReadableBuckets,
		WriteAccess: spec.WritableBuckets,
	})

	spec, request, err := w.steps.CreateCluster(ctx, spec)
	if err != nil {
		return spec, err
	}

	w.events.ClusterInitialized(ClusterInitializedEvent{
		KubernetesCluster: request,
	})

	if _, err := w.poller.Wait(ctx, spec.ProjectID, *spec.Operation); err != nil {
		return spec, err
	}

	w.logger.Info("cluster is ready", map[string]interface{}{"project": spec.ProjectID, "cluster": spec.Name})

	return spec, nil
}

// Translate returns the cluster creation request for spec merged over the defaults without calling any provider.
//
// The basic auth password stays empty unless the spec sets one.
func (w Workflow) Translate(spec ClusterSpec) (*CreateClusterPreview, error) {
	spec, err := MergeSpec(w.defaults, spec)
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if spec.ProjectID == "" {
		spec.ProjectID = w.config.ProjectPrefix + spec.Name
	}

	request := w.steps.translator.ClusterRequest(spec)

	// a missing password is generated by Create, never by a dry run
	if spec.Password == "" && request.Cluster.MasterAuth != nil {
		request.Cluster.MasterAuth.Password = ""
	}

	return &CreateClusterPreview{Spec: spec, Request: request}, nil
}

// CreateClusterPreview is the outcome of a dry translation.
type CreateClusterPreview struct {
	Spec    ClusterSpec                     `json:"spec"`
	Request *container.CreateClusterRequest `json:"request"`
}
