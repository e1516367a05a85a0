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

// Package typeinfo describes the shapes schemagen turns into schemas.
//
// A [Type] is a type descriptor: its identity, kind and, depending on the
// kind, its scalar class, element type, ordered properties or enum members.
// Descriptors form a pointer graph which may contain cycles; the schema
// walker terminates on such graphs by tracking type identities.
//
// Descriptors come from two places: [Introspector] converts Go types through
// reflection and struct tags, and callers may assemble descriptors by hand
// (the manifest loader does this).
package typeinfo

import (
	"strconv"
	"strings"
)

// Identity distinguishes one declared type from another within a build.
type Identity string

// Kind classifies a type descriptor.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindScalar
	KindEnum
	KindArray
	KindMap
	KindObject
	KindStream
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindScalar:  "scalar",
	KindEnum:    "enum",
	KindArray:   "array",
	KindMap:     "map",
	KindObject:  "object",
	KindStream:  "stream",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Scalar names a primitive or string-like type.
type Scalar uint8

const (
	ScalarNone Scalar = iota
	ScalarBool
	ScalarInt // platform-sized integer, no fixed width
	ScalarInt32
	ScalarInt64
	ScalarFloat
	ScalarDouble
	ScalarString
	ScalarDateTime
	ScalarDate
	ScalarUUID
	ScalarURI
	ScalarEmail
	ScalarIP
	ScalarBytes
	ScalarDuration
)

var scalarNames = [...]string{
	ScalarNone:     "",
	ScalarBool:     "bool",
	ScalarInt:      "int",
	ScalarInt32:    "int32",
	ScalarInt64:    "int64",
	ScalarFloat:    "float",
	ScalarDouble:   "double",
	ScalarString:   "string",
	ScalarDateTime: "date-time",
	ScalarDate:     "date",
	ScalarUUID:     "uuid",
	ScalarURI:      "uri",
	ScalarEmail:    "email",
	ScalarIP:       "ip",
	ScalarBytes:    "bytes",
	ScalarDuration: "duration",
}

// String returns the scalar name used by [ParseScalar].
func (s Scalar) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}

	return "Scalar(" + strconv.Itoa(int(s)) + ")"
}

// Numeric reports whether s is an integer or floating point scalar.
func (s Scalar) Numeric() bool {
	switch s {
	case ScalarInt, ScalarInt32, ScalarInt64, ScalarFloat, ScalarDouble:
		return true
	}

	return false
}

// Textual reports whether s is encoded as a JSON string.
func (s Scalar) Textual() bool {
	switch s {
	case ScalarString, ScalarDateTime, ScalarDate, ScalarUUID, ScalarURI, ScalarEmail, ScalarIP, ScalarBytes, ScalarDuration:
		return true
	}

	return false
}

// ParseScalar returns the scalar with the given name. Common aliases
// ("boolean", "integer", "number", "float64", "datetime", ...) are accepted.
func ParseScalar(name string) (Scalar, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bool", "boolean":
		return ScalarBool, true
	case "int", "integer", "uint":
		return ScalarInt, true
	case "int8", "int16", "int32", "uint8", "uint16":
		return ScalarInt32, true
	case "int64", "long", "uint32", "uint64":
		return ScalarInt64, true
	case "float", "float32":
		return ScalarFloat, true
	case "double", "float64", "number", "decimal":
		return ScalarDouble, true
	case "string":
		return ScalarString, true
	case "date-time", "datetime", "timestamp", "time":
		return ScalarDateTime, true
	case "date":
		return ScalarDate, true
	case "uuid", "guid":
		return ScalarUUID, true
	case "uri", "url":
		return ScalarURI, true
	case "email":
		return ScalarEmail, true
	case "ip":
		return ScalarIP, true
	case "bytes", "byte":
		return ScalarBytes, true
	case "duration":
		return ScalarDuration, true
	}

	return ScalarNone, false
}

// UnmappedPolicy controls how an object treats members it does not declare.
type UnmappedPolicy uint8

const (
	// UnmappedSkip ignores extra members (additionalProperties left unset).
	UnmappedSkip UnmappedPolicy = iota

	// UnmappedDisallow rejects extra members (additionalProperties: false).
	UnmappedDisallow
)

// Type is a type descriptor.
type Type struct {
	// ID is the type identity. Object descriptors with the same ID are the
	// same component.
	ID Identity

	// Name is the simple declared name. Objects without a name are inlined.
	Name string

	Kind   Kind
	Scalar Scalar

	// Elem is the element type of an array or the value type of a map.
	Elem         *Type
	ElemNullable bool

	// Properties are the object's properties in declaration order.
	Properties []Property
	Unmapped   UnmappedPolicy

	// EnumMembers are the stringified member names of an enum.
	EnumMembers []string
	EnumDefault string

	Description string
}

// Property is a property descriptor.
type Property struct {
	Name     string
	Type     *Type
	Nullable bool

	Constraints []Constraint
	Description string

	Default    any
	HasDefault bool

	// Required is an explicit required declaration. A required constraint
	// in Constraints has the same effect.
	Required bool

	// Ignored properties are not emitted.
	Ignored bool
}

// ScalarType returns a descriptor for a scalar.
func ScalarType(s Scalar) *Type {
	return &Type{ID: Identity("scalar:" + s.String()), Kind: KindScalar, Scalar: s}
}

// ArrayOf returns an array descriptor over elem.
func ArrayOf(elem *Type, elemNullable bool) *Type {
	return &Type{ID: "[]" + idOf(elem), Kind: KindArray, Elem: elem, ElemNullable: elemNullable}
}

// MapOf returns a string-keyed map descriptor over value.
func MapOf(value *Type, valueNullable bool) *Type {
	return &Type{ID: "map[string]" + idOf(value), Kind: KindMap, Elem: value, ElemNullable: valueNullable}
}

// StreamType returns a binary stream descriptor.
func StreamType() *Type {
	return &Type{ID: "stream", Name: "Stream", Kind: KindStream}
}

// ObjectType returns an object descriptor with the given identity and name.
// Properties may be appended after construction, which is how cyclic
// descriptors are built.
func ObjectType(id Identity, name string, props ...Property) *Type {
	return &Type{ID: id, Name: name, Kind: KindObject, Properties: props}
}

// EnumType returns an enum descriptor.
func EnumType(id Identity, name string, members ...string) *Type {
	return &Type{ID: id, Name: name, Kind: KindEnum, EnumMembers: members}
}

func idOf(t *Type) Identity {
	if t == nil {
		return "unknown"
	}

	return t.ID
}
