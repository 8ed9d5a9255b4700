// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package report

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// errNotCollected is the placeholder message for a section nobody filled.
const errNotCollected = "not collected"

// Section carries the result of one collector: either Data or an Error
// message, never both when marshaled.
type Section[T any] struct {
	Data  *T
	Error string
}

type placeholder struct {
	Error string `json:"error" yaml:"error"`
}

// Ok returns a populated Section.
func Ok[T any](v *T) Section[T] {
	return Section[T]{Data: v}
}

// FromError returns a Section holding the error placeholder.
func FromError[T any](err error) Section[T] {
	msg := errNotCollected
	if err != nil {
		msg = err.Error()
	}
	return Section[T]{Error: msg}
}

// Failed reports whether the section holds an error placeholder.
func (s Section[T]) Failed() bool {
	return s.Error != "" || s.Data == nil
}

// Value returns the collected data or the zero value of T when the
// collector failed.
func (s Section[T]) Value() T {
	if s.Data == nil {
		var zero T
		return zero
	}
	return *s.Data
}

// ErrorMessage returns the placeholder message of a failed section.
func (s Section[T]) ErrorMessage() string {
	if s.Error != "" {
		return s.Error
	}
	return errNotCollected
}

// MarshalJSON implements json.Marshaler.
func (s Section[T]) MarshalJSON() ([]byte, error) {
	if s.Failed() {
		return json.Marshal(placeholder{Error: s.ErrorMessage()})
	}
	return json.Marshal(s.Data)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Section[T]) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("section is not an object: %w", err)
	}
	if raw, ok := probe["error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("section error is not a string: %w", err)
		}
		*s = Section[T]{Error: msg}
		return nil
	}

	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	*s = Section[T]{Data: v}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Section[T]) MarshalYAML() (any, error) {
	if s.Failed() {
		return placeholder{Error: s.ErrorMessage()}, nil
	}
	return s.Data, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Section[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "error" {
				*s = Section[T]{Error: node.Content[i+1].Value}
				return nil
			}
		}
	}

	v := new(T)
	if err := node.Decode(v); err != nil {
		return err
	}
	*s = Section[T]{Data: v}
	return nil
}
