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

// Package provisioning turns a declarative cluster specification into a running GKE cluster
// together with the project, billing, identity and storage resources it depends on.
package provisioning

import (
	"net"
	"regexp"
	"strconv"
	"strings"

	"emperror.dev/errors"
)

// ClusterSpec describes the desired cluster and accumulates the values derived while provisioning.
type ClusterSpec struct {
	Name     string `json:"name"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`

	// ProjectID defaults to the project prefix followed by the cluster name.
	ProjectID      string `json:"projectId,omitempty"`
	BillingAccount string `json:"billingAccount"`
	OrganizationID string `json:"organizationId"`

	// ServiceAccount is replaced by the canonical email once the account is created.
	ServiceAccount string `json:"serviceAccount"`

	ReadableBuckets []string `json:"readableBuckets,omitempty"`
	WritableBuckets []string `json:"writableBuckets,omitempty"`

	Zones       []string `json:"zones"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`

	Worker  WorkerPoolSpec `json:"worker"`
	Manager ManagerSpec    `json:"manager,omitempty"`
	Flags   FeatureFlags   `json:"flags,omitempty"`

	Credentials *Credentials `json:"credentials,omitempty"`
	Operation   *Operation   `json:"operation,omitempty"`
}

// WorkerPoolSpec describes the worker node pool.
type WorkerPoolSpec struct {
	Cores int `json:"cores,omitempty"`
	Count int `json:"count"`
	Min   int `json:"min,omitempty"`
	Max   int `json:"max,omitempty"`

	// Memory is a size like 16GB or 2048MB.
	Memory string `json:"memory,omitempty"`

	// MachineType overrides the type derived from cores and memory.
	MachineType string `json:"machineType,omitempty"`

	// Reserved workers are not preemptible.
	Reserved bool `json:"reserved,omitempty"`

	Storage           StorageSpec  `json:"storage,omitempty"`
	MaintenanceWindow string       `json:"maintenanceWindow,omitempty"`
	Network           *NetworkSpec `json:"network,omitempty"`
}

// StorageSpec describes worker disks.
type StorageSpec struct {
	Persistent string `json:"persistent,omitempty"`
}

// NetworkSpec places workers into an existing network.
type NetworkSpec struct {
	VPC   string `json:"vpc,omitempty"`
	Range string `json:"range,omitempty"`
}

// ManagerSpec describes the cluster control plane.
type ManagerSpec struct {
	Network ManagerNetworkSpec `json:"network,omitempty"`
}

// ManagerNetworkSpec holds the control plane access allow-list.
type ManagerNetworkSpec struct {
	AuthorizedCIDR []AuthorizedNetwork `json:"authorizedCidr,omitempty"`
}

// AuthorizedNetwork is a named CIDR block allowed to reach the control plane.
type AuthorizedNetwork struct {
	Name  string `json:"name"`
	Block string `json:"block"`
}

// FeatureFlags toggles optional cluster features.
type FeatureFlags struct {
	BasicAuth           bool `json:"basicAuth,omitempty"`
	ClientCert          bool `json:"clientCert,omitempty"`
	LoadBalancedHTTP    bool `json:"loadBalancedHTTP,omitempty"`
	AutoScale           bool `json:"autoScale,omitempty"`
	AutoUpgrade         bool `json:"autoUpgrade,omitempty"`
	AutoRepair          bool `json:"autoRepair,omitempty"`
	IncludeDashboard    bool `json:"includeDashboard,omitempty"`
	NetworkPolicy       bool `json:"networkPolicy,omitempty"`
	LegacyAuthorization bool `json:"legacyAuthorization,omitempty"`

	// ServiceMonitoring and ServiceLogging disable the managed services only when explicitly false.
	ServiceMonitoring *bool `json:"serviceMonitoring,omitempty"`
	ServiceLogging    *bool `json:"serviceLogging,omitempty"`
}

// Credentials is a service account key as issued by the identity provider.
type Credentials struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// Operation is a handle to an asynchronous provider action.
type Operation struct {
	Name string `json:"name"`
	Zone string `json:"zone"`
}

// ValidationError is returned when a specification is rejected before any provider call.
type ValidationError struct {
	err error
}

func (e ValidationError) Error() string {
	return "invalid cluster specification: " + e.err.Error()
}

func (e ValidationError) Unwrap() error {
	return e.err
}

// Validate checks that the specification can be provisioned.
func (s ClusterSpec) Validate() error {
	var errs error

	if s.Name == "" {
		errs = errors.Append(errs, errors.New("name is required"))
	}

	if s.OrganizationID == "" {
		errs = errors.Append(errs, errors.New("organization id is required"))
	}

	if s.BillingAccount == "" {
		errs = errors.Append(errs, errors.New("billing account is required"))
	}

	if s.ServiceAccount == "" {
		errs = errors.Append(errs, errors.New("service account is required"))
	}

	if len(s.Zones) == 0 {
		errs = errors.Append(errs, errors.New("at least one zone is required"))
	}

	if s.Flags.BasicAuth && s.User == "" {
		errs = errors.Append(errs, errors.New("user is required when basic auth is enabled"))
	}

	errs = errors.Append(errs, s.Worker.Validate())

	for _, network := range s.Manager.Network.AuthorizedCIDR {
		if _, _, err := net.ParseCIDR(network.Block); err != nil {
			errs = errors.Append(errs, errors.Errorf("authorized network %q has invalid block %q", network.Name, network.Block))
		}
	}

	if errs != nil {
		return ValidationError{err: errs}
	}

	return nil
}

// Validate checks the worker pool settings.
func (w WorkerPoolSpec) Validate() error {
	var errs error

	if w.Count <= 0 {
		errs = errors.Append(errs, errors.New("worker count must be positive"))
	}

	if w.MachineType == "" {
		if w.Cores <= 0 {
			errs = errors.Append(errs, errors.New("worker cores must be positive when no machine type is set"))
		}

		if _, err := sizeInMB(w.Memory); err != nil {
			errs = errors.Append(errs, errors.WrapIf(err, "worker memory"))
		}
	}

	if w.Storage.Persistent != "" {
		if _, err := SizeInGB(w.Storage.Persistent); err != nil {
			errs = errors.Append(errs, errors.WrapIf(err, "worker persistent storage"))
		}
	}

	if w.Min > 0 && w.Max > 0 && w.Min > w.Max {
		errs = errors.Append(errs, errors.Errorf("worker min (%d) must not exceed max (%d)", w.Min, w.Max))
	}

	return errs
}

var sizeRegexp = regexp.MustCompile(`^([0-9]+)(MB|GB)$`)

func parseSize(size string) (int64, string, error) {
	matches := sizeRegexp.FindStringSubmatch(strings.ToUpper(size))
	if matches == nil {
		return 0, "", errors.Errorf("malformed size %q, expected a number followed by MB or GB", size)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, "", errors.WrapIff(err, "malformed size %q", size)
	}

	return value, matches[2], nil
}

// SizeInGB normalizes a size given in MB or GB to gigabytes.
func SizeInGB(size string) (int64, error) {
	value, unit, err := parseSize(size)
	if err != nil {
		return 0, err
	}

	if unit == "MB" {
		return value / 1024, nil
	}

	return value, nil
}

func sizeInMB(size string) (int64, error) {
	value, unit, err := parseSize(size)
	if err != nil {
		return 0, err
	}

	if unit == "GB" {
		return value * 1024, nil
	}

	return value, nil
}
