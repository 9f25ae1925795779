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

	"cloud.google.com/go/iam"
	iampb "google.golang.org/genproto/googleapis/iam/v1"
	"google.golang.org/genproto/googleapis/type/expr"

	"github.com/1stvamp/kubeform/internal/provisioning"
)

// BucketIAMService reads and writes Cloud Storage bucket policies.
type BucketIAMService struct {
	clients ClientFactory
}

// NewBucketIAMService returns a new BucketIAMService.
func NewBucketIAMService(clients ClientFactory) BucketIAMService {
	return BucketIAMService{
		clients: clients,
	}
}

// GetPolicy returns the current policy of a bucket.
func (s BucketIAMService) GetPolicy(ctx context.Context, bucket string) (provisioning.AccessPolicy, error) {
	handle, closer, err := s.handle(ctx, bucket)
	if err != nil {
		return provisioning.AccessPolicy{}, err
	}
	defer closer()

	policy, err := handle.Policy(ctx)
	if err != nil {
		return provisioning.AccessPolicy{}, translateError(err)
	}

	return fromBucketPolicy(policy.InternalProto), nil
}

// SetPolicy replaces the policy of a bucket.
// The write is rejected when the policy changed since it was read.
func (s BucketIAMService) SetPolicy(ctx context.Context, bucket string, policy provisioning.AccessPolicy) error {
	handle, closer, err := s.handle(ctx, bucket)
	if err != nil {
		return err
	}
	defer closer()

	err = handle.SetPolicy(ctx, &iam.Policy{InternalProto: toBucketPolicy(policy)})

	return translateError(err)
}

func (s BucketIAMService) handle(ctx context.Context, bucket string) (*iam.Handle, func(), error) {
	client, err := s.clients.Storage(ctx)
	if err != nil {
		return nil, nil, err
	}

	return client.Bucket(bucket).IAM(), func() { _ = client.Close() }, nil
}

func fromBucketPolicy(policy *iampb.Policy) provisioning.AccessPolicy {
	if policy == nil {
		return provisioning.AccessPolicy{}
	}

	result := provisioning.AccessPolicy{
		Version:  int64(policy.Version),
		Etag:     string(policy.Etag),
		Bindings: make([]provisioning.Binding, 0, len(policy.Bindings)),
	}

	for _, binding := range policy.Bindings {
		b := provisioning.Binding{
			Role:    binding.Role,
			Members: binding.Members,
		}

		if binding.Condition != nil {
			b.Condition = &provisioning.Condition{
				Title:       binding.Condition.Title,
				Description: binding.Condition.Description,
				Expression:  binding.Condition.Expression,
			}
		}

		result.Bindings = append(result.Bindings, b)
	}

	return result
}

func toBucketPolicy(policy provisioning.AccessPolicy) *iampb.Policy {
	result := &iampb.Policy{
		Version:  int32(policy.Version),
		Etag:     []byte(policy.Etag),
		Bindings: make([]*iampb.Binding, 0, len(policy.Bindings)),
	}

	for _, binding := range policy.Bindings {
		b := &iampb.Binding{
			Role:    binding.Role,
			Members: binding.Members,
		}

		if binding.Condition != nil {
			b.Condition = &expr.Expr{
				Title:       binding.Condition.Title,
				Description: binding.Condition.Description,
				Expression:  binding.Condition.Expression,
			}
		}

		result.Bindings = append(result.Bindings, b)
	}

	return result
}
