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
	"net/http"

	"emperror.dev/errors"
	"google.golang.org/api/googleapi"
)

type apiError struct {
	err *googleapi.Error
}

func (e apiError) Error() string {
	if e.err.Message != "" {
		return e.err.Message
	}

	return e.err.Error()
}

func (e apiError) Unwrap() error {
	return e.err
}

// translateError replaces a Google API error with its human message.
// The original error remains reachable through unwrapping.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return errors.WithDetails(errors.WithStack(apiError{err: googleErr}), "code", googleErr.Code)
	}

	return err
}

// isConflict reports whether err is a Google API conflict error.
func isConflict(err error) bool {
	var googleErr *googleapi.Error

	return errors.As(err, &googleErr) && googleErr.Code == http.StatusConflict
}
