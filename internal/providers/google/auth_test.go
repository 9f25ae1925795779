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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/container/v1"
)

func TestClientFactory_WithEndpoints(t *testing.T) {
	projects := http.NewServeMux()
	projects.HandleFunc("/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"projects": []interface{}{map[string]interface{}{"projectId": "test-project", "name": "npme-test"}},
		})
	})

	clusters := http.NewServeMux()
	clusters.HandleFunc("/v1/projects/test-project/zones/us-central1-a/clusters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{"name": "create", "zone": "us-central1-a"})
	})

	clusterServer := httptest.NewServer(clusters)
	t.Cleanup(clusterServer.Close)

	clients := newTestClientFactory(t, projects).WithEndpoints(Endpoints{Container: clusterServer.URL + "/"})

	list, err := NewProjectService(clients, testOperationConfig()).ListProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "test-project", list[0].ID)

	operation, err := NewClusterService(clients).CreateCluster(context.Background(), &container.CreateClusterRequest{
		ProjectId: "test-project",
		Zone:      "us-central1-a",
		Cluster:   &container.Cluster{Name: "test"},
	})
	require.NoError(t, err)

	assert.Equal(t, "create", operation.Name)
}
