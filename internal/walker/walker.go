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

// Package walker converts type descriptors into schema nodes.
//
// Named object types become components in a shared [registry.Registry] and
// are referenced from every occurrence. Everything else is built inline.
// A Walker holds the in-progress state of one call chain and must not be
// shared between goroutines; the registry may be.
package walker

import (
	"slices"
	"strings"

	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/internal/constraint"
	"rivaas.dev/schemagen/internal/registry"
	"rivaas.dev/schemagen/model"
	"rivaas.dev/schemagen/typeinfo"
)

// Option configures a Walker.
type Option func(*Walker)

// WithStrictObjects sets additionalProperties: false on every object,
// regardless of the type's unmapped-member policy.
func WithStrictObjects(strict bool) Option {
	return func(w *Walker) {
		w.strict = strict
	}
}

// Walker builds schema nodes for one operation.
type Walker struct {
	reg    *registry.Registry
	strict bool

	// building marks objects whose body this walker is currently building.
	building map[typeinfo.Identity]bool

	// inline marks anonymous containers on the current call chain.
	inline map[typeinfo.Identity]bool

	path     []string
	warnings diag.Warnings
}

// New creates a walker over reg.
func New(reg *registry.Registry, opts ...Option) *Walker {
	w := &Walker{
		reg:      reg,
		building: make(map[typeinfo.Identity]bool),
		inline:   make(map[typeinfo.Identity]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Warnings returns the warnings collected so far.
func (w *Walker) Warnings() diag.Warnings {
	return w.warnings
}

// Build returns the schema of t. Nullable occurrences carry the null bit.
func (w *Walker) Build(t *typeinfo.Type, nullable bool) *model.Schema {
	return w.build(t, nullable)
}

// BuildAt is Build with path as the JSON pointer reported in warnings.
func (w *Walker) BuildAt(path string, t *typeinfo.Type, nullable bool) *model.Schema {
	saved := w.path
	w.path = []string{path}
	defer func() { w.path = saved }()

	return w.build(t, nullable)
}

// Warn records a warning at the current path extended by suffix.
func (w *Walker) Warn(code diag.WarningCode, suffix, msg string) {
	p := w.here()
	if suffix != "" {
		p += "/" + suffix
	}
	w.warnings = append(w.warnings, diag.NewWarning(code, p, msg))
}

func (w *Walker) here() string {
	return strings.Join(w.path, "/")
}

func (w *Walker) push(seg ...string) func() {
	n := len(w.path)
	w.path = append(w.path, seg...)

	return func() { w.path = w.path[:n] }
}

func (w *Walker) build(t *typeinfo.Type, nullable bool) *model.Schema {
	if t == nil {
		w.Warn(diag.WarnUnsupportedType, "", "missing type descriptor, emitting an unconstrained object")
		return withNull(&model.Schema{Type: model.TypeObject}, nullable)
	}

	switch t.Kind {
	case typeinfo.KindScalar:
		return withNull(w.scalar(t), nullable)
	case typeinfo.KindEnum:
		return withNull(w.enum(t), nullable)
	case typeinfo.KindStream:
		return &model.Schema{Type: model.TypeString, Format: "binary"}
	case typeinfo.KindArray:
		return withNull(w.container(t, func() *model.Schema {
			return &model.Schema{Type: model.TypeArray, Items: w.build(t.Elem, t.ElemNullable)}
		}), nullable)
	case typeinfo.KindMap:
		return withNull(w.container(t, func() *model.Schema {
			value := w.build(t.Elem, t.ElemNullable)
			return &model.Schema{Type: model.TypeObject, Additional: model.AdditionalPropsSchema(value)}
		}), nullable)
	case typeinfo.KindObject:
		if t.Name == "" {
			return withNull(w.container(t, func() *model.Schema { return w.object(t) }), nullable)
		}
		return withNull(w.component(t), nullable)
	}

	w.Warn(diag.WarnUnsupportedType, "", "type "+string(t.ID)+" has no schema mapping, emitting an unconstrained object")

	return withNull(&model.Schema{Type: model.TypeObject}, nullable)
}

var scalars = [...]struct {
	typ    model.TypeFlags
	format string
}{
	typeinfo.ScalarBool:     {model.TypeBoolean, ""},
	typeinfo.ScalarInt:      {model.TypeInteger, ""},
	typeinfo.ScalarInt32:    {model.TypeInteger, "int32"},
	typeinfo.ScalarInt64:    {model.TypeInteger, "int64"},
	typeinfo.ScalarFloat:    {model.TypeNumber, "float"},
	typeinfo.ScalarDouble:   {model.TypeNumber, "double"},
	typeinfo.ScalarString:   {model.TypeString, ""},
	typeinfo.ScalarDateTime: {model.TypeString, "date-time"},
	typeinfo.ScalarDate:     {model.TypeString, "date"},
	typeinfo.ScalarUUID:     {model.TypeString, "uuid"},
	typeinfo.ScalarURI:      {model.TypeString, "uri"},
	typeinfo.ScalarEmail:    {model.TypeString, "email"},
	typeinfo.ScalarIP:       {model.TypeString, "ip"},
	typeinfo.ScalarBytes:    {model.TypeString, "byte"},
	typeinfo.ScalarDuration: {model.TypeString, "duration"},
}

func (w *Walker) scalar(t *typeinfo.Type) *model.Schema {
	if t.Scalar == typeinfo.ScalarNone || int(t.Scalar) >= len(scalars) {
		w.Warn(diag.WarnUnsupportedType, "", "unknown scalar "+t.Scalar.String()+", emitting an unconstrained object")
		return &model.Schema{Type: model.TypeObject}
	}

	m := scalars[t.Scalar]
	s := &model.Schema{Type: m.typ, Format: m.format, Description: t.Description}
	if t.Scalar == typeinfo.ScalarBytes {
		s.ContentEncoding = "base64"
	}

	return s
}

func (w *Walker) enum(t *typeinfo.Type) *model.Schema {
	s := &model.Schema{Type: model.TypeString, Description: t.Description}
	for _, m := range t.EnumMembers {
		s.Enum = append(s.Enum, m)
	}

	if t.EnumDefault != "" {
		if slices.Contains(t.EnumMembers, t.EnumDefault) {
			s.Default = t.EnumDefault
		} else {
			w.Warn(diag.WarnEnumDefault, "", "default "+t.EnumDefault+" of "+t.Name+" is not a member, dropped")
		}
	}

	return s
}

// container builds an inline node, guarding against anonymous types that
// contain themselves.
func (w *Walker) container(t *typeinfo.Type, fn func() *model.Schema) *model.Schema {
	if w.inline[t.ID] {
		w.Warn(diag.WarnRecursiveInline, "", "anonymous type "+string(t.ID)+" contains itself, emitting an empty schema")
		return &model.Schema{}
	}
	w.inline[t.ID] = true
	defer delete(w.inline, t.ID)

	return fn()
}

// component returns a reference to t's component, building it if no other
// walker has finished it yet.
func (w *Walker) component(t *typeinfo.Type) *model.Schema {
	state, name := w.reg.State(t.ID)

	switch {
	case state == registry.Final:
		return model.RefTo(name)
	case state == registry.Reserved && w.building[t.ID]:
		return model.RefTo(name)
	case state == registry.Miss:
		var renamed bool
		name, renamed = w.reg.Reserve(t.ID, t.Name)
		if renamed {
			w.warnings = append(w.warnings, collision(t, name))
		}
	}

	w.building[t.ID] = true
	saved := w.path
	w.path = []string{model.ComponentPrefix + name}
	mark := len(w.warnings)

	body := w.object(t)

	// Body warnings belong to the component, not to the operation that
	// happened to build it.
	own := slices.Clone(w.warnings[mark:])
	w.warnings = w.warnings[:mark]
	w.path = saved
	delete(w.building, t.ID)
	w.reg.Finalize(t.ID, body, own)

	return model.RefTo(name)
}

func (w *Walker) object(t *typeinfo.Type) *model.Schema {
	s := &model.Schema{
		Type:        model.TypeObject,
		Description: t.Description,
		Properties:  model.NewProperties(),
	}

	for _, p := range t.Properties {
		if p.Ignored {
			continue
		}
		pop := w.push("properties", p.Name)

		child := w.build(p.Type, p.Nullable)
		set := constraint.Extract(constraint.FromProperty(p))
		w.applyConstraints(set, child)
		if p.HasDefault && !child.IsRef() && child.Default == nil {
			child.Default = p.Default
		}

		s.Properties.Set(p.Name, child)
		if set.Required && !slices.Contains(s.Required, p.Name) {
			s.Required = append(s.Required, p.Name)
		}

		pop()
	}

	if t.Unmapped == typeinfo.UnmappedDisallow || w.strict {
		s.Additional = model.NoAdditionalProps()
	}

	return s
}

// ApplyConstraints applies set to node and records a warning for every
// constraint that did not fit.
func (w *Walker) ApplyConstraints(set constraint.Set, node *model.Schema) {
	w.applyConstraints(set, node)
}

func (w *Walker) applyConstraints(set constraint.Set, node *model.Schema) {
	for _, is := range set.Apply(node) {
		code := diag.WarnConstraintIgnored
		if is.Malformed {
			code = diag.WarnConstraintMalformed
		}
		w.Warn(code, "", is.String())
	}
}

func withNull(s *model.Schema, nullable bool) *model.Schema {
	if nullable {
		s.Type |= model.TypeNull
	}

	return s
}
