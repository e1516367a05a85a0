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

// Package export projects a schema document onto an OpenAPI 3.0.4 or
// 3.1.2 document, marshaled as JSON and YAML with property order kept.
package export

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/internal/build"
	"rivaas.dev/schemagen/model"
)

// Version represents an OpenAPI specification version.
type Version string

const (
	// V30 represents OpenAPI 3.0.4.
	V30 Version = "3.0.4"
	// V31 represents OpenAPI 3.1.2.
	V31 Version = "3.1.2"
)

// ErrSchemaValidation indicates a projected document failed validation.
var ErrSchemaValidation = errors.New("schemagen: exported document failed validation")

// ParseVersion accepts "3.0", "3.1" or a full version string.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "3.0", string(V30):
		return V30, nil
	case "3.1", string(V31), "":
		return V31, nil
	}

	return "", fmt.Errorf("unknown OpenAPI version: %q", s)
}

// Config configures spec projection behavior.
type Config struct {
	// Version is the target OpenAPI version. Defaults to V31.
	Version Version

	// Title and APIVersion fill the info object. They default to "API"
	// and "1.0.0".
	Title      string
	APIVersion string

	// Validate checks the projected document before returning it: 3.1
	// schemas are compiled as JSON Schema 2020-12, 3.0 documents are
	// validated as OpenAPI 3.0.
	Validate bool
}

// Result contains the output of spec projection.
type Result struct {
	// JSON is the marshaled OpenAPI specification as JSON bytes.
	JSON []byte

	// YAML is the marshaled OpenAPI specification as YAML bytes.
	YAML []byte

	// Warnings lists features that could not be expressed in the target
	// version.
	Warnings diag.Warnings
}

// Project converts a schema document to an OpenAPI document.
//
// Operations sharing a path are grouped into one path item, in input
// order. Nullable references become anyOf [$ref, null] in 3.1 and
// allOf [$ref] with nullable: true in 3.0.
func Project(ctx context.Context, doc *model.Document, cfg Config) (Result, error) {
	if doc == nil {
		return Result{}, errors.New("nil document")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	version := cmp.Or(cfg.Version, V31)
	if version != V30 && version != V31 {
		return Result{}, fmt.Errorf("unknown version: %s", version)
	}

	p := newProjector(version, model.ComponentPrefix)
	out := p.document(doc, cmp.Or(cfg.Title, "API"), cmp.Or(cfg.APIVersion, "1.0.0"))

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return Result{Warnings: p.warns}, fmt.Errorf("failed to marshal spec to JSON: %w", err)
	}

	if cfg.Validate {
		if version == V31 {
			err = validate31(doc)
		} else {
			err = validate30(ctx, jsonBytes)
		}
		if err != nil {
			return Result{Warnings: p.warns}, fmt.Errorf("%w: %w", ErrSchemaValidation, err)
		}
	}

	yamlBytes, err := yaml.Marshal(out)
	if err != nil {
		return Result{Warnings: p.warns}, fmt.Errorf("failed to marshal spec to YAML: %w", err)
	}

	return Result{
		JSON:     jsonBytes,
		YAML:     yamlBytes,
		Warnings: p.warns,
	}, nil
}

// projector carries projection state for one target version.
type projector struct {
	version   Version
	refPrefix string
	warns     diag.Warnings
}

func newProjector(v Version, refPrefix string) *projector {
	return &projector{version: v, refPrefix: refPrefix, warns: diag.Warnings{}}
}

func (p *projector) warn(code diag.WarningCode, path, msg string) {
	p.warns = append(p.warns, diag.NewWarning(code, path, msg))
}

func (p *projector) document(doc *model.Document, title, apiVersion string) object {
	var out object
	out.set("openapi", string(p.version))
	out.set("info", object{{"title", title}, {"version", apiVersion}})

	var (
		paths object
		items = map[string]*object{}
		order []string
	)
	for _, op := range doc.Operations {
		key := build.ConvertPath(op.Path)
		item, ok := items[key]
		if !ok {
			item = &object{}
			items[key] = item
			order = append(order, key)
		}
		method := strings.ToLower(op.Method)
		item.set(method, p.operation(op, "#/paths/"+escape(key)+"/"+method))
	}
	for _, key := range order {
		paths.set(key, *items[key])
	}
	out.set("paths", paths)

	if doc.Components.Len() > 0 {
		var schemas object
		for _, name := range doc.Components.Names() {
			s, _ := doc.Components.Lookup(name)
			schemas.set(name, p.schema(s, model.ComponentPrefix+name))
		}
		out.set("components", object{{"schemas", schemas}})
	}

	return out
}

func (p *projector) operation(op *model.Operation, path string) object {
	var out object
	if op.Summary != "" {
		out.set("summary", op.Summary)
	}
	if op.Description != "" {
		out.set("description", op.Description)
	}
	out.set("operationId", op.ID)
	if len(op.Tags) > 0 {
		out.set("tags", op.Tags)
	}
	if op.Deprecated {
		out.set("deprecated", true)
	}

	if len(op.Parameters) > 0 {
		params := make([]object, 0, len(op.Parameters))
		for i, prm := range op.Parameters {
			var po object
			po.set("name", prm.Name)
			po.set("in", prm.In)
			if prm.Description != "" {
				po.set("description", prm.Description)
			}
			if prm.Required {
				po.set("required", true)
			}
			po.set("schema", p.schema(prm.Schema, path+"/parameters/"+strconv.Itoa(i)+"/schema"))
			params = append(params, po)
		}
		out.set("parameters", params)
	}

	if rb := op.RequestBody; rb != nil {
		var body object
		if rb.Description != "" {
			body.set("description", rb.Description)
		}
		if rb.Required {
			body.set("required", true)
		}
		body.set("content", p.content(rb.ContentTypes(), rb.Content, path+"/requestBody/content"))
		out.set("requestBody", body)
	}

	var responses object
	for _, r := range op.Responses {
		status := strconv.Itoa(r.Status)
		var ro object
		ro.set("description", r.Description)
		if len(r.Content) > 0 {
			ro.set("content", p.content(r.ContentTypes(), r.Content, path+"/responses/"+status+"/content"))
		}
		responses.set(status, ro)
	}
	out.set("responses", responses)

	return out
}

func (p *projector) content(types []string, content map[string]*model.Schema, path string) object {
	var out object
	for _, ct := range types {
		out.set(ct, object{{"schema", p.schema(content[ct], path+"/"+escape(ct)+"/schema")}})
	}

	return out
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escape(s string) string {
	return pointerEscaper.Replace(s)
}
