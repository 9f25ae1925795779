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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/api/option"
)

func newTestClientFactory(t *testing.T, handler http.Handler) ClientFactory {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClientFactoryWithOptions(
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
}

func testOperationConfig() OperationConfig {
	return OperationConfig{
		Interval:   time.Millisecond,
		MaxRetries: 5,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Error(err)
	}
}

func writeError(t *testing.T, w http.ResponseWriter, code int, message string) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Error(err)
	}
}

func readJSON(t *testing.T, r *http.Request, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Error(err)
	}
}
