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

package google

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/container/v1"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

func TestClusterService_CreateCluster(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/projects/test-project/zones/us-central1-a/clusters", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Cluster struct {
				Name string `json:"name"`
			} `json:"cluster"`
		}
		readJSON(t, r, &body)

		assert.Equal(t, "test", body.Cluster.Name)

		writeJSON(t, w, map[string]interface{}{"name": "create", "zone": "us-central1-a", "status": "RUNNING"})
	})

	service := NewClusterService(newTestClientFactory(t, mux))

	operation, err := service.CreateCluster(context.Background(), &container.CreateClusterRequest{
		ProjectId: "test-project",
		Zone:      "us-central1-a",
		Cluster:   &container.Cluster{Name: "test"},
	})
	require.NoError(t, err)

	assert.Equal(t, provisioning.Operation{Name: "create", Zone: "us-central1-a"}, operation)
}

func TestClusterService_CreateCluster_Error(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/projects/test-project/zones/us-central1-a/clusters", func(w http.ResponseWriter, r *http.Request) {
		writeError(t, w, http.StatusBadRequest, "Project is being initialized, please wait a few minutes and try again.")
	})

	service := NewClusterService(newTestClientFactory(t, mux))

	_, err := service.CreateCluster(context.Background(), &container.CreateClusterRequest{
		ProjectId: "test-project",
		Zone:      "us-central1-a",
		Cluster:   &container.Cluster{Name: "test"},
	})

	assert.EqualError(t, err, "Project is being initialized, please wait a few minutes and try again.")
}

func TestClusterService_GetOperation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/projects/test-project/zones/us-central1-a/operations/create", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"name":          "create",
			"status":        "DONE",
			"statusMessage": "insufficient regional quota",
		})
	})

	service := NewClusterService(newTestClientFactory(t, mux))

	status, err := service.GetOperation(context.Background(), "test-project", "us-central1-a", "create")
	require.NoError(t, err)

	assert.Equal(t, provisioning.OperationStatus{Status: "DONE", Error: "insufficient regional quota"}, status)
}
