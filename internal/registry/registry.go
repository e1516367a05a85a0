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

// Package registry assigns component names to type identities and stores
// the finalized component schemas of one document build.
//
// A name is reserved when a type is first seen and the schema is stored
// when its build finishes. Between the two the type is in progress, and
// callers emit a reference to the reserved name instead of recursing.
package registry

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/model"
	"rivaas.dev/schemagen/typeinfo"
)

// State is the registry state of a type identity.
type State uint8

const (
	// Miss means the identity has no reserved name.
	Miss State = iota

	// Reserved means a name is assigned but no schema is stored yet.
	Reserved

	// Final means the schema is stored.
	Final
)

// Registry is safe for concurrent use. It is the only mutable state shared
// between concurrently built operations.
type Registry struct {
	mu     sync.Mutex
	names  map[typeinfo.Identity]string
	owners map[string]typeinfo.Identity
	final  map[typeinfo.Identity]*model.Schema
	warns  map[typeinfo.Identity]diag.Warnings
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		names:  make(map[typeinfo.Identity]string),
		owners: make(map[string]typeinfo.Identity),
		final:  make(map[typeinfo.Identity]*model.Schema),
		warns:  make(map[typeinfo.Identity]diag.Warnings),
	}
}

// Reserve returns the component name of id, assigning one derived from
// base on first use. The same identity always receives the same name. If
// base is already held by another identity, a numeric suffix starting at 2
// is appended; renamed reports that case.
func (r *Registry) Reserve(id typeinfo.Identity, base string) (name string, renamed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.names[id]; ok {
		return n, false
	}

	if base == "" {
		base = "Object"
	}

	name = base
	for i := 2; ; i++ {
		if _, taken := r.owners[name]; !taken {
			break
		}
		name = base + strconv.Itoa(i)
		renamed = true
	}

	r.names[id] = name
	r.owners[name] = id

	return name, renamed
}

// State returns the state of id and its reserved name, if any.
func (r *Registry) State(id typeinfo.Identity) (State, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.names[id]
	switch {
	case !ok:
		return Miss, ""
	case r.final[id] != nil:
		return Final, name
	default:
		return Reserved, name
	}
}

// Lookup returns the finalized schema of id.
func (r *Registry) Lookup(id typeinfo.Identity) (*model.Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.final[id]

	return s, ok
}

// Finalize stores the schema of id, together with the warnings raised while
// building it, and returns the stored schema. Only the first call for an
// identity stores; later calls return the first schema, so two builders
// racing on the same type converge on one component.
func (r *Registry) Finalize(id typeinfo.Identity, s *model.Schema, warns diag.Warnings) *model.Schema {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.final[id]; ok {
		return prev
	}
	r.final[id] = s
	if len(warns) > 0 {
		r.warns[id] = warns
	}

	return s
}

// Warnings returns the warnings of finalized components, ordered by
// component name. Component warnings do not depend on which operation
// built the component first.
func (r *Registry) Warnings() diag.Warnings {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]typeinfo.Identity, 0, len(r.warns))
	for id := range r.warns {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b typeinfo.Identity) int { return strings.Compare(r.names[a], r.names[b]) })

	var out diag.Warnings
	for _, id := range ids {
		out = append(out, r.warns[id]...)
	}

	return out
}

// Len returns the number of reserved names.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.names)
}

// Components returns the finalized schemas keyed by component name.
// Identities that were reserved but never finalized are left out.
func (r *Registry) Components() *model.Components {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := model.NewComponents()
	for id, s := range r.final {
		c.Add(r.names[id], s)
	}

	return c
}
