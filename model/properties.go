// Copyright 2025 The Rivaas Authors
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

package model

import (
	"iter"
	"maps"
)

// Properties is an insertion-ordered property table.
//
// The zero value is not usable; create one with [NewProperties].
// Methods on a nil *Properties behave like an empty table.
type Properties struct {
	keys   []string
	values map[string]*Schema
}

// NewProperties creates an empty property table.
func NewProperties() *Properties {
	return &Properties{values: map[string]*Schema{}}
}

// Set stores s under name. Replacing an existing name keeps its position.
func (p *Properties) Set(name string, s *Schema) {
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = s
}

// Get returns the schema stored under name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.values[name]

	return s, ok
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}

	return len(p.keys)
}

// Keys returns the property names in declaration order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}

	return append([]string(nil), p.keys...)
}

// All iterates the properties in declaration order.
func (p *Properties) All() iter.Seq2[string, *Schema] {
	return func(yield func(string, *Schema) bool) {
		if p == nil {
			return
		}
		for _, k := range p.keys {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of the table.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	return &Properties{
		keys:   append([]string(nil), p.keys...),
		values: maps.Clone(p.values),
	}
}
