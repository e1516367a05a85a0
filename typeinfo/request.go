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
	"reflect"
	"strings"
)

// Locations a request struct field can be bound from.
const (
	InQuery  = "query"
	InPath   = "path"
	InHeader = "header"
	InCookie = "cookie"
	InForm   = "form"
)

var bindingTags = []string{InQuery, InPath, InHeader, InCookie, InForm}

// Binding is a request struct field bound from a non-JSON location.
type Binding struct {
	In       string
	Property Property
}

// RequestShape is the result of introspecting a request struct.
type RequestShape struct {
	// Bindings are the fields carrying a query, path, header, cookie or
	// form tag, in declaration order.
	Bindings []Binding

	// Body is the struct descriptor when at least one field has a json
	// tag, nil otherwise.
	Body         *Type
	BodyNullable bool
}

// Request introspects a request struct. Fields tagged query, path,
// header, cookie or form become bindings; json-tagged fields make the
// struct itself the JSON body. It returns false if t is not a struct or a
// pointer to one.
func (in *Introspector) Request(t reflect.Type) (RequestShape, bool) {
	if t == nil {
		return RequestShape{}, false
	}
	nullable := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}
	if t.Kind() != reflect.Struct {
		return RequestShape{}, false
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	var shape RequestShape
	hasBody := false

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}

		if s := f.Tag.Get("json"); s != "" && s != "-" {
			hasBody = true
		}

		for _, loc := range bindingTags {
			tagVal := f.Tag.Get(loc)
			if tagVal == "" || tagVal == "-" {
				continue
			}
			name, _, _ := strings.Cut(tagVal, ",")
			if name = strings.TrimSpace(name); name == "" {
				name = f.Name
			}

			ft, fn := in.of(f.Type)
			p := Property{
				Name:        name,
				Type:        ft,
				Nullable:    fn,
				Description: firstNonEmpty(f.Tag.Get("doc"), f.Tag.Get("description")),
				Constraints: fieldConstraints(f, ft),
				Required:    loc == InPath,
			}
			if def, ok := f.Tag.Lookup("default"); ok {
				p.Default = ParseDefault(def, f.Type)
				p.HasDefault = p.Default != nil
			}
			shape.Bindings = append(shape.Bindings, Binding{In: loc, Property: p})

			break
		}
	}

	if hasBody {
		shape.Body = in.describe(t)
		shape.BodyNullable = nullable
	}

	return shape, true
}
