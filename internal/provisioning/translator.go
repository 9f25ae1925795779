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
	"fmt"

	"github.com/gofrs/uuid"
	"google.golang.org/api/container/v1"
)

const (
	defaultNodePoolName  = "default-pool"
	defaultImageType     = "COS"
	networkPolicyCalico  = "CALICO"
	disabledCloudService = "none"
)

// nolint: gochecknoglobals
var workerOAuthScopes = []string{
	"https://www.googleapis.com/auth/compute",
	"https://www.googleapis.com/auth/devstorage.read_only",
}

// Translator maps a validated ClusterSpec to GKE request shapes.
type Translator struct {
	generatePassword func() string
}

// TranslatorOption configures a Translator.
type TranslatorOption func(t *Translator)

// WithPasswordGenerator replaces the basic auth password generator.
func WithPasswordGenerator(generate func() string) TranslatorOption {
	return func(t *Translator) {
		t.generatePassword = generate
	}
}

// NewTranslator returns a new Translator.
func NewTranslator(opts ...TranslatorOption) Translator {
	t := Translator{
		generatePassword: func() string {
			return uuid.Must(uuid.NewV4()).String()
		},
	}

	for _, opt := range opts {
		opt(&t)
	}

	return t
}

// ClusterRequest translates the spec into a cluster creation request.
func (t Translator) ClusterRequest(spec ClusterSpec) *container.CreateClusterRequest {
	flags := spec.Flags

	cluster := &container.Cluster{
		Name:                  spec.Name,
		Description:           spec.Description,
		NodePools:             []*container.NodePool{t.NodePool(spec)},
		InitialClusterVersion: spec.Version,
		Locations:             spec.Zones,
		AddonsConfig: &container.AddonsConfig{
			HttpLoadBalancing:        &container.HttpLoadBalancing{Disabled: !flags.LoadBalancedHTTP},
			HorizontalPodAutoscaling: &container.HorizontalPodAutoscaling{Disabled: !flags.AutoScale},
			KubernetesDashboard:      &container.KubernetesDashboard{Disabled: !flags.IncludeDashboard},
			NetworkPolicyConfig:      &container.NetworkPolicyConfig{Disabled: !flags.NetworkPolicy},
		},
		LegacyAbac: &container.LegacyAbac{
			Enabled: flags.LegacyAuthorization,
		},
		NetworkPolicy: &container.NetworkPolicy{
			Enabled:  flags.NetworkPolicy,
			Provider: networkPolicyCalico,
		},
		MasterAuthorizedNetworksConfig: authorizedNetworksConfig(spec.Manager.Network.AuthorizedCIDR),
		MaintenancePolicy: &container.MaintenancePolicy{
			Window: &container.MaintenanceWindow{
				DailyMaintenanceWindow: &container.DailyMaintenanceWindow{
					StartTime: spec.Worker.MaintenanceWindow,
				},
			},
		},
		MasterAuth: &container.MasterAuth{
			ClientCertificateConfig: &container.ClientCertificateConfig{
				IssueClientCertificate: flags.ClientCert,
			},
		},
	}

	if spec.Worker.Network != nil {
		cluster.Network = spec.Worker.Network.VPC
		cluster.ClusterIpv4Cidr = spec.Worker.Network.Range
	}

	if flags.BasicAuth {
		cluster.MasterAuth.Username = spec.User
		cluster.MasterAuth.Password = spec.Password

		if cluster.MasterAuth.Password == "" {
			cluster.MasterAuth.Password = t.generatePassword()
		}
	}

	if flags.ServiceMonitoring != nil && !*flags.ServiceMonitoring {
		cluster.MonitoringService = disabledCloudService
	}

	if flags.ServiceLogging != nil && !*flags.ServiceLogging {
		cluster.LoggingService = disabledCloudService
	}

	var zone string
	if len(spec.Zones) > 0 {
		zone = spec.Zones[0]
	}

	return &container.CreateClusterRequest{
		ProjectId: spec.ProjectID,
		Zone:      zone,
		Cluster:   cluster,
	}
}

// NodePool translates the worker spec into the default node pool.
func (t Translator) NodePool(spec ClusterSpec) *container.NodePool {
	worker := spec.Worker

	var diskSize int64
	if worker.Storage.Persistent != "" {
		// the spec is validated, the size is well-formed
		diskSize, _ = SizeInGB(worker.Storage.Persistent)
	}

	pool := &container.NodePool{
		Name:             defaultNodePoolName,
		InitialNodeCount: int64(worker.Count),
		Config: &container.NodeConfig{
			MachineType:    MachineType(worker),
			ServiceAccount: spec.ServiceAccount,
			DiskSizeGb:     diskSize,
			ImageType:      defaultImageType,
			LocalSsdCount:  0,
			Preemptible:    !worker.Reserved,
			OauthScopes:    append([]string(nil), workerOAuthScopes...),
		},
		Management: &container.NodeManagement{
			AutoRepair:  spec.Flags.AutoRepair,
			AutoUpgrade: spec.Flags.AutoUpgrade,
		},
	}

	if spec.Flags.AutoScale && worker.Min > 0 && worker.Max > 0 {
		pool.Autoscaling = &container.NodePoolAutoscaling{
			Enabled:      true,
			MinNodeCount: int64(worker.Min),
			MaxNodeCount: int64(worker.Max),
		}
	}

	return pool
}

// MachineType returns the machine type of workers.
//
// Without an explicit type the family is chosen by memory per core:
// up to 0.9GB is highcpu, up to 3.75GB is standard, anything above is highmem.
func MachineType(worker WorkerPoolSpec) string {
	if worker.MachineType != "" {
		return worker.MachineType
	}

	family := "standard"

	memory, err := sizeInMB(worker.Memory)
	if err == nil && worker.Cores > 0 {
		perCore := float64(memory) / 1024 / float64(worker.Cores)

		switch {
		case perCore <= 0.9:
			family = "highcpu"
		case perCore <= 3.75:
			family = "standard"
		default:
			family = "highmem"
		}
	}

	return fmt.Sprintf("n1-%s-%d", family, worker.Cores)
}

func authorizedNetworksConfig(networks []AuthorizedNetwork) *container.MasterAuthorizedNetworksConfig {
	config := &container.MasterAuthorizedNetworksConfig{
		Enabled:    len(networks) > 0,
		CidrBlocks: make([]*container.CidrBlock, 0, len(networks)),
	}

	for _, network := range networks {
		config.CidrBlocks = append(config.CidrBlocks, &container.CidrBlock{
			DisplayName: network.Name,
			CidrBlock:   network.Block,
		})
	}

	return config
}
