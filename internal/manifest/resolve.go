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

package manifest

import (
	"fmt"
	"strings"

	"rivaas.dev/schemagen"
	"rivaas.dev/schemagen/typeinfo"
)

const identityPrefix = "manifest."

// resolver turns type expressions into descriptors. Named descriptors are
// allocated before their properties are filled, so declarations may refer
// to each other in any order and may be cyclic.
type resolver struct {
	named map[string]*typeinfo.Type
}

func newResolver(defs []TypeDef) (*resolver, error) {
	r := &resolver{named: make(map[string]*typeinfo.Type, len(defs))}

	for _, d := range defs {
		if _, dup := r.named[d.Name]; dup {
			return nil, fmt.Errorf("%w: type %q declared twice", ErrInvalidManifest, d.Name)
		}
		id := typeinfo.Identity(identityPrefix + d.Name)
		var t *typeinfo.Type
		if len(d.Enum) > 0 {
			t = typeinfo.EnumType(id, d.Name, d.Enum...)
			t.EnumDefault = d.Default
		} else {
			t = typeinfo.ObjectType(id, d.Name)
			if d.Strict {
				t.Unmapped = typeinfo.UnmappedDisallow
			}
		}
		t.Description = d.Description
		r.named[d.Name] = t
	}

	for _, d := range defs {
		t := r.named[d.Name]
		for _, pd := range d.Properties {
			pt, nullable, err := r.parse(pd.Type)
			if err != nil {
				return nil, fmt.Errorf("type %s, property %s: %w", d.Name, pd.Name, err)
			}
			t.Properties = append(t.Properties, typeinfo.Property{
				Name:        pd.Name,
				Type:        pt,
				Nullable:    nullable,
				Constraints: typeinfo.ParseValidateTag(pd.Validate, pt),
				Description: pd.Description,
				Default:     pd.Default,
				HasDefault:  pd.Default != nil,
				Required:    pd.Required,
			})
		}
	}

	return r, nil
}

// parse resolves a type expression. The second result reports a nullable
// occurrence ("?T").
func (r *resolver) parse(expr string) (*typeinfo.Type, bool, error) {
	expr = strings.TrimSpace(expr)

	if rest, ok := strings.CutPrefix(expr, "?"); ok {
		t, _, err := r.parse(rest)
		return t, true, err
	}
	if rest, ok := strings.CutPrefix(expr, "[]"); ok {
		elem, nullable, err := r.parse(rest)
		if err != nil {
			return nil, false, err
		}
		return typeinfo.ArrayOf(elem, nullable), false, nil
	}
	if rest, ok := strings.CutPrefix(expr, "map[string]"); ok {
		value, nullable, err := r.parse(rest)
		if err != nil {
			return nil, false, err
		}
		return typeinfo.MapOf(value, nullable), false, nil
	}
	if expr == "binary" {
		return typeinfo.StreamType(), false, nil
	}
	if t, ok := r.named[expr]; ok {
		return t, false, nil
	}
	if s, ok := typeinfo.ParseScalar(expr); ok {
		return typeinfo.ScalarType(s), false, nil
	}

	return nil, false, fmt.Errorf("%w: %q", schemagen.ErrUnknownType, expr)
}

// Resolve converts the manifest into operations for
// [schemagen.Generator.Generate].
func (f *File) Resolve() ([]schemagen.Operation, error) {
	r, err := newResolver(f.Types)
	if err != nil {
		return nil, err
	}

	ops := make([]schemagen.Operation, 0, len(f.Operations))
	for i, od := range f.Operations {
		op, err := r.operation(od)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s %s): %w", i, od.Method, od.Path, err)
		}
		ops = append(ops, op)
	}

	return ops, nil
}

var paramConstructors = map[string]func(string, any, ...schemagen.ParamOption) schemagen.Param{
	"body":   schemagen.Body,
	"form":   schemagen.Form,
	"query":  schemagen.Query,
	"path":   schemagen.Path,
	"header": schemagen.Header,
	"cookie": schemagen.Cookie,
}

func (r *resolver) operation(od OperationDef) (schemagen.Operation, error) {
	opts := []schemagen.OperationOption{
		schemagen.WithSummary(od.Summary),
		schemagen.WithDescription(od.Description),
	}
	if od.ID != "" {
		opts = append(opts, schemagen.WithOperationID(od.ID))
	}
	if len(od.Tags) > 0 {
		opts = append(opts, schemagen.WithTags(od.Tags...))
	}
	if od.Deprecated {
		opts = append(opts, schemagen.WithDeprecated())
	}

	params := make([]schemagen.Param, 0, len(od.Params))
	for _, pd := range od.Params {
		p, err := r.param(pd)
		if err != nil {
			return schemagen.Operation{}, fmt.Errorf("param %s: %w", pd.Name, err)
		}
		params = append(params, p)
	}
	opts = append(opts, schemagen.WithParams(params...))

	for _, rd := range od.Responses {
		var (
			body     any
			nullable bool
		)
		if rd.Type != "" {
			t, n, err := r.parse(rd.Type)
			if err != nil {
				return schemagen.Operation{}, fmt.Errorf("response %d: %w", rd.Status, err)
			}
			body, nullable = t, n
		}
		opts = append(opts, schemagen.WithResponse(rd.Status, body))
		if nullable {
			opts = append(opts, schemagen.WithResponseNullable(rd.Status))
		}
		if rd.Description != "" {
			opts = append(opts, schemagen.WithResponseDescription(rd.Status, rd.Description))
		}
		if rd.ContentType != "" {
			opts = append(opts, schemagen.WithResponseContentType(rd.Status, rd.ContentType))
		}
	}

	return schemagen.Op(strings.ToUpper(od.Method), od.Path, opts...), nil
}

func (r *resolver) param(pd ParamDef) (schemagen.Param, error) {
	var opts []schemagen.ParamOption
	if pd.Required {
		opts = append(opts, schemagen.Required())
	}
	if pd.Description != "" {
		opts = append(opts, schemagen.Describe(pd.Description))
	}
	if pd.Validate != "" {
		opts = append(opts, schemagen.Validate(pd.Validate))
	}
	if pd.Default != nil {
		opts = append(opts, schemagen.Default(pd.Default))
	}

	if pd.In == "stream" {
		return schemagen.Stream(pd.Name, opts...), nil
	}

	t, nullable, err := r.parse(pd.Type)
	if err != nil {
		return schemagen.Param{}, err
	}
	if nullable {
		opts = append(opts, schemagen.Nullable())
	}

	return paramConstructors[pd.In](pd.Name, t, opts...), nil
}
