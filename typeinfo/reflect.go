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

package typeinfo

import (
	"encoding"
	"io"
	"mime/multipart"
	"net"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Enum is implemented by Go types that should be described as string enums.
type Enum interface {
	EnumValues() []string
}

// EnumDefaulter optionally supplies the default member of an [Enum].
type EnumDefaulter interface {
	EnumDefault() string
}

// StrictObject is implemented by struct types that reject unknown members.
type StrictObject interface {
	DisallowUnknownFields() bool
}

// Describer supplies a type-level description.
type Describer interface {
	SchemaDescription() string
}

var (
	readerType     = reflect.TypeFor[io.Reader]()
	fileHeaderType = reflect.TypeFor[*multipart.FileHeader]()
	textMarshaler  = reflect.TypeFor[encoding.TextMarshaler]()
	timeType       = reflect.TypeFor[time.Time]()
	durationType   = reflect.TypeFor[time.Duration]()
	uuidType       = reflect.TypeFor[uuid.UUID]()
	urlType        = reflect.TypeFor[url.URL]()
	ipType         = reflect.TypeFor[net.IP]()
)

// Introspector converts Go types into descriptors.
//
// Descriptors are cached per Go type, so converting the same type twice
// returns the same pointer and recursive types produce cyclic descriptor
// graphs. An Introspector is safe for concurrent use.
type Introspector struct {
	mu     sync.Mutex
	cache  map[reflect.Type]*Type
	stream *Type
}

// NewIntrospector creates an empty introspector.
func NewIntrospector() *Introspector {
	return &Introspector{
		cache:  make(map[reflect.Type]*Type),
		stream: StreamType(),
	}
}

// Of returns the descriptor of t and whether the occurrence is nullable.
// Pointer types are nullable occurrences of their element type.
func (in *Introspector) Of(t reflect.Type) (*Type, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.of(t)
}

// For returns the descriptor of T.
func For[T any](in *Introspector) (*Type, bool) {
	return in.Of(reflect.TypeFor[T]())
}

func (in *Introspector) of(t reflect.Type) (*Type, bool) {
	if t == nil {
		return &Type{ID: "unknown", Kind: KindUnknown}, false
	}

	nullable := false
	for t.Kind() == reflect.Pointer {
		if t == fileHeaderType || t.Implements(readerType) {
			return in.stream, false
		}
		nullable = true
		t = t.Elem()
	}

	return in.describe(t), nullable
}

func (in *Introspector) describe(t reflect.Type) *Type {
	if d, ok := in.cache[t]; ok {
		return d
	}

	switch t {
	case timeType:
		return in.remember(t, ScalarType(ScalarDateTime))
	case uuidType:
		return in.remember(t, ScalarType(ScalarUUID))
	case urlType:
		return in.remember(t, ScalarType(ScalarURI))
	case ipType:
		return in.remember(t, ScalarType(ScalarIP))
	case durationType:
		return in.remember(t, ScalarType(ScalarInt64))
	}

	if e, ok := as[Enum](t); ok {
		d := EnumType(identity(t), typeName(t), e.EnumValues()...)
		if def, ok := as[EnumDefaulter](t); ok {
			d.EnumDefault = def.EnumDefault()
		}
		d.Description = describeType(t)

		return in.remember(t, d)
	}

	switch t.Kind() {
	case reflect.Bool:
		return in.remember(t, ScalarType(ScalarBool))
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return in.remember(t, ScalarType(ScalarInt))
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return in.remember(t, ScalarType(ScalarInt32))
	case reflect.Int64, reflect.Uint32, reflect.Uint64:
		return in.remember(t, ScalarType(ScalarInt64))
	case reflect.Float32:
		return in.remember(t, ScalarType(ScalarFloat))
	case reflect.Float64:
		return in.remember(t, ScalarType(ScalarDouble))
	case reflect.String:
		return in.remember(t, ScalarType(ScalarString))

	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return in.remember(t, ScalarType(ScalarBytes))
		}
		d := in.remember(t, &Type{ID: identity(t), Name: typeName(t), Kind: KindArray})
		d.Elem, d.ElemNullable = in.of(t.Elem())

		return d

	case reflect.Map:
		if !mapKeyOK(t.Key()) {
			return in.remember(t, unknown(t))
		}
		d := in.remember(t, &Type{ID: identity(t), Name: typeName(t), Kind: KindMap})
		d.Elem, d.ElemNullable = in.of(t.Elem())

		return d

	case reflect.Struct:
		d := in.remember(t, ObjectType(identity(t), typeName(t)))
		in.fillObject(d, t)

		return d

	case reflect.Interface:
		if t.Implements(readerType) {
			return in.stream
		}
	}

	return in.remember(t, unknown(t))
}

func (in *Introspector) remember(t reflect.Type, d *Type) *Type {
	in.cache[t] = d
	return d
}

// fillObject adds the struct's fields to d. d is already cached, so
// fields referring back to t resolve to d.
func (in *Introspector) fillObject(d *Type, t reflect.Type) {
	d.Description = describeType(t)
	if s, ok := as[StrictObject](t); ok && s.DisallowUnknownFields() {
		d.Unmapped = UnmappedDisallow
	}

	for _, f := range objectFields(t) {
		ft, nullable := in.of(f.field.Type)
		p := Property{
			Name:        f.name,
			Type:        ft,
			Nullable:    nullable,
			Description: firstNonEmpty(f.field.Tag.Get("doc"), f.field.Tag.Get("description")),
			Ignored:     f.ignored,
		}
		p.Constraints = fieldConstraints(f.field, ft)
		if def, ok := f.field.Tag.Lookup("default"); ok {
			p.Default = ParseDefault(def, f.field.Type)
			p.HasDefault = p.Default != nil
		}
		d.Properties = append(d.Properties, p)
	}
}

func fieldConstraints(f reflect.StructField, ft *Type) []Constraint {
	cs := ParseValidateTag(f.Tag.Get("validate"), ft)
	if format := f.Tag.Get("format"); format != "" {
		cs = append(cs, Constraint{Kind: ConstraintFormat, Format: format})
	}
	if e := f.Tag.Get("enum"); e != "" {
		if vals := parseEnumValues(e); len(vals) > 0 {
			cs = append(cs, Constraint{Kind: ConstraintOneOf, Values: vals})
		}
	}
	if p := f.Tag.Get("pattern"); p != "" {
		cs = append(cs, Pattern(p))
	}

	return cs
}

type objectField struct {
	name    string
	field   reflect.StructField
	depth   int
	ignored bool
}

// objectFields lists the JSON-visible fields of a struct in declaration
// order, with promoted fields of embedded structs in place of the embedded
// field. For duplicate names the shallowest field wins.
func objectFields(t reflect.Type) []objectField {
	var (
		out      []objectField
		byName   = map[string]int{}
		skipping []int
	)

	for _, f := range reflect.VisibleFields(t) {
		if skipping != nil && hasPrefix(f.Index, skipping) {
			continue
		}
		skipping = nil

		tag := f.Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && name == "" && tag != "-" {
				continue
			}
			// A named or ignored embedded field hides its promoted fields.
			skipping = f.Index
		}
		if !f.IsExported() {
			continue
		}

		of := objectField{field: f, depth: len(f.Index)}
		switch {
		case tag == "-" || f.Tag.Get("schema") == "-":
			of.ignored = true
			of.name = f.Name
		case tag == "" && boundOutsideBody(f):
			of.ignored = true
			of.name = f.Name
		case name != "":
			of.name = name
		default:
			of.name = f.Name
		}

		if i, dup := byName[of.name]; dup {
			if out[i].depth > of.depth {
				out[i] = of
			}
			continue
		}
		byName[of.name] = len(out)
		out = append(out, of)
	}

	return out
}

// boundOutsideBody reports whether f is read from the query, path,
// headers or cookies. Such fields are not part of the JSON shape unless
// they also carry a json tag.
func boundOutsideBody(f reflect.StructField) bool {
	for _, loc := range []string{InQuery, InPath, InHeader, InCookie} {
		if v := f.Tag.Get(loc); v != "" && v != "-" {
			return true
		}
	}

	return false
}

func hasPrefix(index, prefix []int) bool {
	if len(index) <= len(prefix) {
		return false
	}
	for i := range prefix {
		if index[i] != prefix[i] {
			return false
		}
	}

	return true
}

func mapKeyOK(k reflect.Type) bool {
	switch k.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}

	return k.Implements(textMarshaler) || reflect.PointerTo(k).Implements(textMarshaler)
}

func unknown(t reflect.Type) *Type {
	return &Type{ID: identity(t), Name: typeName(t), Kind: KindUnknown}
}

func describeType(t reflect.Type) string {
	if d, ok := as[Describer](t); ok {
		return d.SchemaDescription()
	}

	return ""
}

// as returns t's zero value as I when t or *t implements I.
func as[I any](t reflect.Type) (I, bool) {
	var zero I
	it := reflect.TypeFor[I]()

	switch {
	case t.Kind() == reflect.Interface:
		return zero, false
	case t.Implements(it):
		v, ok := reflect.Zero(t).Interface().(I)
		return v, ok
	case reflect.PointerTo(t).Implements(it):
		v, ok := reflect.New(t).Interface().(I)
		return v, ok
	}

	return zero, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
