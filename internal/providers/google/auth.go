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

// Package google implements the provisioning collaborators on top of the Google Cloud APIs.
package google

import (
	"context"
	"encoding/json"
	"io/ioutil"

	"cloud.google.com/go/storage"
	"emperror.dev/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/cloudbilling/v1"
	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/container/v1"
	"google.golang.org/api/iam/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/serviceusage/v1"
)

// ServiceAccount describes a Google service account key file.
type ServiceAccount struct {
	Type                   string `json:"type"`
	ProjectId              string `json:"project_id"`
	PrivateKeyId           string `json:"private_key_id"`
	PrivateKey             string `json:"private_key"`
	ClientEmail            string `json:"client_email"`
	ClientId               string `json:"client_id"`
	AuthUri                string `json:"auth_uri"`
	TokenUri               string `json:"token_uri"`
	AuthProviderX50CertUrl string `json:"auth_provider_x509_cert_url"`
	ClientX509CertUrl      string `json:"client_x509_cert_url"`
}

// Config holds the Google API client configuration.
type Config struct {
	// CredentialsFile is a service account key file.
	// Application default credentials are used when empty.
	CredentialsFile string

	// Endpoints points individual clients at emulators or test servers.
	Endpoints Endpoints
}

// Endpoints overrides the API endpoint of a client when set.
type Endpoints struct {
	ResourceManager string
	ServiceUsage    string
	Billing         string
	IAM             string
	Container       string
	Storage         string
}

// ClientFactory creates authenticated Google API clients.
type ClientFactory struct {
	options   []option.ClientOption
	endpoints Endpoints
}

// NewClientFactory returns a ClientFactory authenticated with the configured credentials.
func NewClientFactory(ctx context.Context, config Config) (ClientFactory, error) {
	var credentials *google.Credentials

	if config.CredentialsFile != "" {
		credentialsJSON, err := ioutil.ReadFile(config.CredentialsFile)
		if err != nil {
			return ClientFactory{}, errors.WrapIff(err, "failed to read credentials file %s", config.CredentialsFile)
		}

		var serviceAccount ServiceAccount
		if err := json.Unmarshal(credentialsJSON, &serviceAccount); err != nil {
			return ClientFactory{}, errors.WrapIf(err, "failed to parse credentials file")
		}

		if serviceAccount.ClientEmail == "" || serviceAccount.PrivateKey == "" {
			return ClientFactory{}, errors.New("credentials file must contain a client email and a private key")
		}

		credentials, err = google.CredentialsFromJSON(ctx, credentialsJSON, cloudresourcemanager.CloudPlatformScope)
		if err != nil {
			return ClientFactory{}, errors.WrapIf(err, "failed to create credentials")
		}
	} else {
		var err error

		credentials, err = google.FindDefaultCredentials(ctx, cloudresourcemanager.CloudPlatformScope)
		if err != nil {
			return ClientFactory{}, errors.WrapIf(err, "failed to find default credentials")
		}
	}

	return NewClientFactoryWithOptions(option.WithCredentials(credentials)).WithEndpoints(config.Endpoints), nil
}

// NewClientFactoryWithOptions returns a ClientFactory passing the options to every client.
func NewClientFactoryWithOptions(options ...option.ClientOption) ClientFactory {
	return ClientFactory{
		options: options,
	}
}

// WithEndpoints returns a copy of the factory with per-client endpoint overrides.
func (f ClientFactory) WithEndpoints(endpoints Endpoints) ClientFactory {
	f.endpoints = endpoints

	return f
}

func (f ClientFactory) clientOptions(endpoint string) []option.ClientOption {
	if endpoint == "" {
		return f.options
	}

	options := make([]option.ClientOption, 0, len(f.options)+1)
	options = append(options, f.options...)

	return append(options, option.WithEndpoint(endpoint))
}

// ResourceManager returns a Cloud Resource Manager client.
func (f ClientFactory) ResourceManager(ctx context.Context) (*cloudresourcemanager.Service, error) {
	svc, err := cloudresourcemanager.NewService(ctx, f.clientOptions(f.endpoints.ResourceManager)...)

	return svc, errors.WrapIf(err, "failed to create resource manager client")
}

// ServiceUsage returns a Service Usage client.
func (f ClientFactory) ServiceUsage(ctx context.Context) (*serviceusage.Service, error) {
	svc, err := serviceusage.NewService(ctx, f.clientOptions(f.endpoints.ServiceUsage)...)

	return svc, errors.WrapIf(err, "failed to create service usage client")
}

// Billing returns a Cloud Billing client.
func (f ClientFactory) Billing(ctx context.Context) (*cloudbilling.APIService, error) {
	svc, err := cloudbilling.NewService(ctx, f.clientOptions(f.endpoints.Billing)...)

	return svc, errors.WrapIf(err, "failed to create billing client")
}

// IAM returns an Identity and Access Management client.
func (f ClientFactory) IAM(ctx context.Context) (*iam.Service, error) {
	svc, err := iam.NewService(ctx, f.clientOptions(f.endpoints.IAM)...)

	return svc, errors.WrapIf(err, "failed to create iam client")
}

// Container returns a Kubernetes Engine client.
func (f ClientFactory) Container(ctx context.Context) (*container.Service, error) {
	svc, err := container.NewService(ctx, f.clientOptions(f.endpoints.Container)...)

	return svc, errors.WrapIf(err, "failed to create container client")
}

// Storage returns a Cloud Storage client.
func (f ClientFactory) Storage(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, f.clientOptions(f.endpoints.Storage)...)

	return client, errors.WrapIf(err, "failed to create storage client")
}
