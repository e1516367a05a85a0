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

package export

import (
	"slices"
	"strconv"

	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/model"
)

// schema projects a schema node onto the target version.
//
// Key differences between versions:
//   - Nullable: type union with "null" in 3.1, nullable: true in 3.0
//   - Nullable refs: anyOf [$ref, null] in 3.1, allOf [$ref] in 3.0
//   - Exclusive bounds: numeric in 3.1, boolean flags in 3.0
//   - contentEncoding: dropped in 3.0
func (p *projector) schema(s *model.Schema, path string) object {
	var out object
	if s == nil {
		return out
	}

	if s.IsRef() {
		return p.ref(s)
	}

	p.typ(&out, s.Type, path)

	if s.Format != "" {
		out.set("format", s.Format)
	}
	if s.ContentEncoding != "" {
		if p.version == V31 {
			out.set("contentEncoding", s.ContentEncoding)
		} else if s.Format != "byte" {
			p.warn(diag.WarnDownlevelContentEncoding, path,
				"contentEncoding "+s.ContentEncoding+" is not supported in OpenAPI 3.0")
		}
	}
	if s.Description != "" {
		out.set("description", s.Description)
	}

	if s.Minimum != nil {
		p.bound(&out, "minimum", "exclusiveMinimum", s.Minimum)
	}
	if s.Maximum != nil {
		p.bound(&out, "maximum", "exclusiveMaximum", s.Maximum)
	}

	if s.Pattern != "" {
		out.set("pattern", s.Pattern)
	}
	setInt(&out, "minLength", s.MinLength)
	setInt(&out, "maxLength", s.MaxLength)

	if s.Items != nil {
		out.set("items", p.schema(s.Items, path+"/items"))
	}
	setInt(&out, "minItems", s.MinItems)
	setInt(&out, "maxItems", s.MaxItems)

	if s.Properties.Len() > 0 {
		var props object
		for name, ps := range s.Properties.All() {
			props.set(name, p.schema(ps, path+"/properties/"+escape(name)))
		}
		out.set("properties", props)
	}
	if len(s.Required) > 0 {
		out.set("required", s.Required)
	}
	if a := s.Additional; a != nil {
		switch {
		case a.Schema != nil:
			out.set("additionalProperties", p.schema(a.Schema, path+"/additionalProperties"))
		case a.Allow != nil:
			out.set("additionalProperties", *a.Allow)
		}
	}
	setInt(&out, "minProperties", s.MinProperties)
	setInt(&out, "maxProperties", s.MaxProperties)

	if len(s.Enum) > 0 {
		out.set("enum", enum(s))
	}
	if s.Default != nil {
		out.set("default", s.Default)
	}

	if len(s.AllOf) > 0 {
		out.set("allOf", p.list(s.AllOf, path+"/allOf/"))
	}
	if len(s.AnyOf) > 0 {
		out.set("anyOf", p.list(s.AnyOf, path+"/anyOf/"))
	}

	return out
}

func (p *projector) ref(s *model.Schema) object {
	target := object{{"$ref", p.refPrefix + s.RefName()}}
	nullable := s.Type.Nullable()

	var out object
	switch {
	case p.version == V31 && nullable:
		out.set("anyOf", []object{target, {{"type", "null"}}})
	case p.version == V31:
		out = target
	case nullable || s.Description != "":
		// 3.0 ignores siblings of $ref.
		out.set("allOf", []object{target})
		if nullable {
			out.set("nullable", true)
		}
	default:
		return target
	}
	if s.Description != "" {
		out.set("description", s.Description)
	}

	return out
}

func (p *projector) typ(out *object, t model.TypeFlags, path string) {
	names := t.Base().Names()

	if p.version == V31 {
		if t.Nullable() && len(names) > 0 {
			names = append(names, "null")
		}
		switch len(names) {
		case 0:
		case 1:
			out.set("type", names[0])
		default:
			out.set("type", names)
		}

		return
	}

	if len(names) > 1 {
		p.warn(diag.WarnDownlevelTypeUnion, path,
			"type union "+t.Base().String()+" narrowed to "+names[0]+" for OpenAPI 3.0")
	}
	if len(names) > 0 {
		out.set("type", names[0])
	}
	if t.Nullable() {
		out.set("nullable", true)
	}
}

func (p *projector) bound(out *object, inclusive, exclusive string, b *model.Bound) {
	switch {
	case !b.Exclusive:
		out.set(inclusive, b.Value)
	case p.version == V31:
		out.set(exclusive, b.Value)
	default:
		out.set(inclusive, b.Value)
		out.set(exclusive, true)
	}
}

func (p *projector) list(in []*model.Schema, path string) []object {
	out := make([]object, 0, len(in))
	for i, s := range in {
		out = append(out, p.schema(s, path+strconv.Itoa(i)))
	}

	return out
}

// enum returns the enum list of s. A nullable enum lists null, or the
// null type would admit a value the enum rejects.
func enum(s *model.Schema) []any {
	if !s.Type.Nullable() || slices.ContainsFunc(s.Enum, isNull) {
		return s.Enum
	}

	return append(slices.Clone(s.Enum), nil)
}

func isNull(v any) bool { return v == nil }

func setInt(out *object, key string, v *int) {
	if v != nil {
		out.set(key, *v)
	}
}
