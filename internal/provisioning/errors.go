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

// StepError is returned when a provisioning step fails.
//
// The message embeds the underlying failure verbatim; the failure itself remains reachable with errors.As and errors.Is.
type StepError struct {
	// Step names the failed step.
	Step string

	// Message describes what failed.
	Message string

	// Err is the underlying collaborator failure.
	Err error
}

func (e *StepError) Error() string {
	return e.Message + " with " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Step names
const (
	StepEnsureProject         = "project-created"
	StepEnableServices        = "service-apis-enabled"
	StepFixBilling            = "billing-associated"
	StepCreateClusterService  = "service-account-created"
	StepGetAccountCredentials = "account-credentials-acquired"
	StepSetRoles              = "iam-roles-assigned"
	StepGrantBucketAccess     = "bucket-access-granted"
	StepCreateCluster         = "cluster-created"
	StepWaitForCluster        = "cluster-ready"
)
