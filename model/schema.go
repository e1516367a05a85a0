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

// Package model defines the in-memory schema document produced by schemagen.
//
// A [Document] holds one [Operation] per input operation and a shared
// [Components] table. Schema nodes are plain values; a node with a non-empty
// Ref points at a component and carries no inline shape beyond an optional
// null bit and description. Nodes are immutable once a build completes.
package model

import "strings"

// ComponentPrefix is the reference prefix for component schemas.
const ComponentPrefix = "#/components/schemas/"

// TypeFlags is a set of JSON Schema primitive types.
//
// More than one bit may be set; nullability is always the [TypeNull] bit,
// never a wrapper schema.
type TypeFlags uint8

const (
	TypeObject TypeFlags = 1 << iota
	TypeArray
	TypeString
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeNull
)

var flagNames = [...]struct {
	flag TypeFlags
	name string
}{
	{TypeObject, "object"},
	{TypeArray, "array"},
	{TypeString, "string"},
	{TypeNumber, "number"},
	{TypeInteger, "integer"},
	{TypeBoolean, "boolean"},
	{TypeNull, "null"},
}

// Has reports whether every bit of o is set in f.
func (f TypeFlags) Has(o TypeFlags) bool {
	return o != 0 && f&o == o
}

// Nullable reports whether the null bit is set.
func (f TypeFlags) Nullable() bool {
	return f&TypeNull != 0
}

// Base returns f without the null bit.
func (f TypeFlags) Base() TypeFlags {
	return f &^ TypeNull
}

// Names returns the JSON Schema type names in a fixed order.
func (f TypeFlags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			out = append(out, fn.name)
		}
	}

	return out
}

// String returns the type names joined by "|".
func (f TypeFlags) String() string {
	return strings.Join(f.Names(), "|")
}

// Bound represents a numeric bound (minimum or maximum) with exclusive flag.
type Bound struct {
	Value     float64
	Exclusive bool
}

// Additional represents additionalProperties configuration for objects.
//
// The semantics are:
//   - nil => not specified (JSON Schema default: true)
//   - Allow != nil && *Allow == false && Schema == nil => additionalProperties: false
//   - Schema != nil => additionalProperties: <schema> (takes precedence over Allow)
type Additional struct {
	Allow  *bool
	Schema *Schema
}

// NoAdditionalProps returns an Additional that disallows additional properties.
func NoAdditionalProps() *Additional {
	f := false
	return &Additional{Allow: &f}
}

// AdditionalPropsSchema returns an Additional that allows additional properties matching the given schema.
func AdditionalPropsSchema(s *Schema) *Additional {
	return &Additional{Schema: s}
}

// Schema is one node of a generated schema graph.
type Schema struct {
	// Ref is a reference to a component schema ("#/components/schemas/Name").
	// A reference node only carries Ref, an optional null bit in Type and
	// an optional Description.
	Ref string

	// Type is the set of allowed JSON types. Zero means unconstrained.
	Type TypeFlags

	// Format refines Type (e.g. "date-time", "uuid", "int32", "binary").
	Format string

	// ContentEncoding is set for base64 encoded byte strings.
	ContentEncoding string

	Description string
	Pattern     string

	MinLength *int
	MaxLength *int

	Minimum *Bound
	Maximum *Bound

	Items    *Schema
	MinItems *int
	MaxItems *int

	// Properties holds object properties in declaration order.
	Properties *Properties
	Required   []string
	Additional *Additional

	MinProperties *int
	MaxProperties *int

	Enum    []any
	Default any

	AllOf []*Schema
	AnyOf []*Schema
}

// RefTo returns a reference node to the named component.
func RefTo(name string) *Schema {
	return &Schema{Ref: ComponentPrefix + name}
}

// IsRef reports whether s is a reference node.
func (s *Schema) IsRef() bool {
	return s != nil && s.Ref != ""
}

// RefName returns the component name a reference node points at.
func (s *Schema) RefName() string {
	if s == nil {
		return ""
	}

	return strings.TrimPrefix(s.Ref, ComponentPrefix)
}

// Clone returns a copy of s. Child schemas are shared, slices and the
// property table are copied.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Required = append([]string(nil), s.Required...)
	c.Enum = append([]any(nil), s.Enum...)
	c.AllOf = append([]*Schema(nil), s.AllOf...)
	c.AnyOf = append([]*Schema(nil), s.AnyOf...)
	if s.Properties != nil {
		c.Properties = s.Properties.Clone()
	}

	return &c
}
