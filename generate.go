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

package schemagen

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"rivaas.dev/schemagen/internal/build"
	"rivaas.dev/schemagen/internal/negotiate"
	"rivaas.dev/schemagen/typeinfo"
)

// Generate builds the schema document of ops.
//
// Components are shared across all operations of one call and never
// across calls. A failure confined to one operation degrades that
// operation and is reported in [Result.Warnings]; the error return is
// reserved for invalid input (no operations, duplicate IDs, malformed
// operations) and context cancellation.
//
// Example:
//
//	result, err := gen.Generate(ctx,
//	    schemagen.POST("/todos",
//	        schemagen.WithParams(schemagen.Body("todo", Todo{})),
//	        schemagen.WithResponse(201, Todo{}),
//	    ),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	todo, _ := result.Document.Operation("createTodo")
func (g *Generator) Generate(ctx context.Context, ops ...Operation) (*Result, error) {
	converted := make([]build.Operation, 0, len(ops))
	for i, op := range ops {
		bop, err := g.convertOperation(op)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s %s): %w", i, op.Method, op.Path, err)
		}
		converted = append(converted, bop)
	}

	builder := build.NewBuilder(build.Config{
		Logger:          g.Logger,
		Concurrency:     g.Concurrency,
		StrictObjects:   g.StrictObjects,
		JSONContentType: g.DefaultContentType,
	})

	doc, warnings, err := builder.Build(ctx, converted)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema document: %w", err)
	}

	return &Result{Document: doc, Warnings: warnings}, nil
}

func (g *Generator) convertOperation(op Operation) (build.Operation, error) {
	if strings.TrimSpace(op.Method) == "" {
		return build.Operation{}, fmt.Errorf("%w: missing method", ErrInvalidOperation)
	}
	if !strings.HasPrefix(op.Path, "/") {
		return build.Operation{}, fmt.Errorf("%w: path must start with '/'", ErrInvalidOperation)
	}

	d := op.doc
	out := build.Operation{
		ID:          d.OperationID,
		Method:      op.Method,
		Path:        op.Path,
		Summary:     d.Summary,
		Description: d.Description,
		Tags:        d.Tags,
		Deprecated:  d.Deprecated,
	}

	for _, req := range d.Requests {
		params, err := g.requestParams(req)
		if err != nil {
			return build.Operation{}, err
		}
		out.Params = append(out.Params, params...)
	}

	for _, p := range d.Params {
		out.Params = append(out.Params, g.convertParam(p))
	}

	for _, r := range d.Responses {
		resp := build.Response{
			Status:      r.status,
			Description: r.description,
			ContentType: r.contentType,
		}
		if r.typ != nil {
			resp.Type, resp.Nullable = g.resolve(r.typ)
			resp.Nullable = resp.Nullable || r.nullable
		}
		out.Responses = append(out.Responses, resp)
	}

	return out, nil
}

func (g *Generator) convertParam(p Param) negotiate.Parameter {
	var (
		t        *typeinfo.Type
		nullable bool
	)
	if p.source == negotiate.SourceStream {
		t = typeinfo.StreamType()
	} else {
		t, nullable = g.resolve(p.typ)
	}

	return negotiate.Parameter{
		Name:        p.name,
		Source:      p.source,
		Type:        t,
		Nullable:    nullable || p.nullable,
		Required:    p.required,
		Description: p.description,
		Constraints: typeinfo.ParseValidateTag(p.validate, t),
		Default:     p.def,
		HasDefault:  p.hasDefault,
	}
}

var locationSources = map[string]negotiate.Source{
	typeinfo.InQuery:  negotiate.SourceQuery,
	typeinfo.InPath:   negotiate.SourcePath,
	typeinfo.InHeader: negotiate.SourceHeader,
	typeinfo.InCookie: negotiate.SourceCookie,
	typeinfo.InForm:   negotiate.SourceForm,
}

func (g *Generator) requestParams(req request) ([]negotiate.Parameter, error) {
	shape, ok := g.types.Request(req.typ)
	if !ok {
		return nil, fmt.Errorf("%w: request type %v is not a struct", ErrUnknownType, req.typ)
	}

	var out []negotiate.Parameter
	for _, b := range shape.Bindings {
		p := b.Property
		out = append(out, negotiate.Parameter{
			Name:        p.Name,
			Source:      locationSources[b.In],
			Type:        p.Type,
			Nullable:    p.Nullable,
			Required:    p.Required,
			Description: p.Description,
			Constraints: p.Constraints,
			Default:     p.Default,
			HasDefault:  p.HasDefault,
		})
	}

	if shape.Body != nil {
		bp := newParam("body", negotiate.SourceBody, shape.Body, req.opts)
		param := g.convertParam(bp)
		param.Nullable = param.Nullable || shape.BodyNullable
		out = append(out, param)
	}

	return out, nil
}

// resolve returns the descriptor of a Go value, reflect.Type or
// *typeinfo.Type. A nil value resolves to an unknown type, which degrades
// to an unconstrained object.
func (g *Generator) resolve(v any) (*typeinfo.Type, bool) {
	switch t := v.(type) {
	case *typeinfo.Type:
		return t, false
	case reflect.Type:
		return g.types.Of(t)
	case nil:
		return &typeinfo.Type{ID: "nil", Kind: typeinfo.KindUnknown}, false
	default:
		return g.types.Of(reflect.TypeOf(v))
	}
}
