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
	"slices"
	"sort"
)

// Document is the result of one schema build.
type Document struct {
	// Operations are kept in input order.
	Operations []*Operation

	// Components resolves every reference node in the document.
	Components *Components
}

// Operation returns the operation with the given identifier.
func (d *Document) Operation(id string) (*Operation, bool) {
	if d == nil {
		return nil, false
	}
	for _, op := range d.Operations {
		if op.ID == id {
			return op, true
		}
	}

	return nil, false
}

// Operation is the schema view of one API operation.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool

	// Parameters are non-body parameters (query, path, header, cookie).
	Parameters []Parameter

	// RequestBody is nil when the operation has no body, or when its body
	// could not be resolved.
	RequestBody *RequestBody

	// Responses are ordered by status code.
	Responses []Response
}

// Parameter describes a single non-body parameter.
type Parameter struct {
	Name        string
	In          string // query, path, header, cookie
	Description string
	Required    bool
	Schema      *Schema
}

// RequestBody maps content types to schemas.
type RequestBody struct {
	Description string
	Required    bool
	Content     map[string]*Schema
}

// ContentTypes returns the content types in sorted order.
func (rb *RequestBody) ContentTypes() []string {
	if rb == nil {
		return nil
	}
	out := make([]string, 0, len(rb.Content))
	for ct := range rb.Content {
		out = append(out, ct)
	}
	sort.Strings(out)

	return out
}

// Response describes one response of an operation.
type Response struct {
	Status      int
	Description string
	Content     map[string]*Schema
}

// ContentTypes returns the content types in sorted order.
func (r Response) ContentTypes() []string {
	out := make([]string, 0, len(r.Content))
	for ct := range r.Content {
		out = append(out, ct)
	}
	sort.Strings(out)

	return out
}

// Components is the shared table of finalized component schemas.
type Components struct {
	names   []string
	schemas map[string]*Schema
}

// NewComponents creates an empty component table.
func NewComponents() *Components {
	return &Components{schemas: map[string]*Schema{}}
}

// Add stores s under name, keeping the table sorted by name.
func (c *Components) Add(name string, s *Schema) {
	if _, ok := c.schemas[name]; !ok {
		i, _ := slices.BinarySearch(c.names, name)
		c.names = slices.Insert(c.names, i, name)
	}
	c.schemas[name] = s
}

// Lookup returns the component stored under name.
func (c *Components) Lookup(name string) (*Schema, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.schemas[name]

	return s, ok
}

// Names returns the component names in sorted order.
func (c *Components) Names() []string {
	if c == nil {
		return nil
	}

	return append([]string(nil), c.names...)
}

// Len returns the number of components.
func (c *Components) Len() int {
	if c == nil {
		return 0
	}

	return len(c.names)
}

// Resolve follows a reference node to its component. Inline nodes are
// returned unchanged. It returns nil for a dangling reference.
func (c *Components) Resolve(s *Schema) *Schema {
	if !s.IsRef() {
		return s
	}
	target, _ := c.Lookup(s.RefName())

	return target
}
