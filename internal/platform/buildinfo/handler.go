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

package buildinfo

import (
	"encoding/json"
	"net/http"

	"emperror.dev/errors"
)

// Handler returns an HTTP handler for version information.
func Handler(buildInfo BuildInfo) http.Handler {
	body, err := json.Marshal(buildInfo)
	if err != nil {
		panic(errors.WrapIf(err, "failed to render version information"))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		_, _ = w.Write(body)
	})
}
