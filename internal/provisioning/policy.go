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

// AccessPolicy is a versioned set of role bindings guarded by an etag.
type AccessPolicy struct {
	Version  int64     `json:"version"`
	Etag     string    `json:"etag"`
	Bindings []Binding `json:"bindings"`
}

// Binding grants a role to a set of members.
type Binding struct {
	Role    string   `json:"role"`
	Members []string `json:"members"`

	// Condition limits the grant. Members are only ever added to unconditional bindings.
	Condition *Condition `json:"condition,omitempty"`
}

// Condition is a CEL expression attached to a binding.
type Condition struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Expression  string `json:"expression"`
}

// Grant returns a copy of the policy in which member holds role.
//
// Existing bindings are never removed and the version and etag are kept,
// so the result can be written back as an optimistic update.
func Grant(policy AccessPolicy, member string, role string) AccessPolicy {
	result := AccessPolicy{
		Version:  policy.Version,
		Etag:     policy.Etag,
		Bindings: make([]Binding, 0, len(policy.Bindings)+1),
	}

	granted := false

	for _, binding := range policy.Bindings {
		var members []string
		if binding.Members != nil {
			members = make([]string, len(binding.Members))
			copy(members, binding.Members)
		}

		var condition *Condition
		if binding.Condition != nil {
			c := *binding.Condition
			condition = &c
		}

		if binding.Role == role && condition == nil && !granted {
			if !containsString(members, member) {
				members = append(members, member)
			}

			granted = true
		}

		result.Bindings = append(result.Bindings, Binding{Role: binding.Role, Members: members, Condition: condition})
	}

	if !granted {
		result.Bindings = append(result.Bindings, Binding{Role: role, Members: []string{member}})
	}

	return result
}

// GrantAll grants every role to member.
func GrantAll(policy AccessPolicy, member string, roles []string) AccessPolicy {
	for _, role := range roles {
		policy = Grant(policy, member, role)
	}

	return policy
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
