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

// Package negotiate derives request body and parameter schemas from the
// binding sources of an operation's parameters.
package negotiate

import (
	"errors"
	"fmt"
	"strconv"

	"rivaas.dev/schemagen/internal/constraint"
	"rivaas.dev/schemagen/internal/walker"
	"rivaas.dev/schemagen/model"
	"rivaas.dev/schemagen/typeinfo"
)

// Content types.
const (
	ContentJSON        = "application/json"
	ContentForm        = "application/x-www-form-urlencoded"
	ContentMultipart   = "multipart/form-data"
	ContentOctetStream = "application/octet-stream"
)

// ErrConflictingBody is returned when an operation binds its body from
// incompatible sources.
var ErrConflictingBody = errors.New("schemagen: conflicting request body sources")

// Source is where a parameter is bound from.
type Source uint8

const (
	// SourceBody binds one structured value from the request body.
	SourceBody Source = iota + 1

	// SourceForm binds one form field.
	SourceForm

	SourceQuery
	SourcePath
	SourceHeader
	SourceCookie

	// SourceStream binds the raw request body.
	SourceStream
)

var sourceNames = [...]string{
	SourceBody:   "body",
	SourceForm:   "form",
	SourceQuery:  "query",
	SourcePath:   "path",
	SourceHeader: "header",
	SourceCookie: "cookie",
	SourceStream: "stream",
}

// String returns the source name. Non-body sources use the OpenAPI "in" value.
func (s Source) String() string {
	if int(s) < len(sourceNames) && sourceNames[s] != "" {
		return sourceNames[s]
	}

	return "Source(" + strconv.Itoa(int(s)) + ")"
}

// IsBody reports whether s contributes to the request body.
func (s Source) IsBody() bool {
	return s == SourceBody || s == SourceForm || s == SourceStream
}

// ParseSource returns the source with the given name.
func ParseSource(name string) (Source, bool) {
	for i, n := range sourceNames {
		if n != "" && n == name {
			return Source(i), true
		}
	}

	return 0, false
}

// Parameter is one bound parameter of an operation.
type Parameter struct {
	Name     string
	Source   Source
	Type     *typeinfo.Type
	Nullable bool

	// Required is the parameter's explicit required declaration.
	Required bool

	Description string
	Constraints []typeinfo.Constraint
	Default     any
	HasDefault  bool
}

func (p Parameter) source() constraint.Source {
	return constraint.Source{
		Constraints: p.Constraints,
		Description: p.Description,
		Required:    p.Required,
		HasDefault:  p.HasDefault,
	}
}

func (p Parameter) isStream() bool {
	return p.Source == SourceStream || (p.Type != nil && p.Type.Kind == typeinfo.KindStream)
}

// Negotiator builds request bodies and parameter schemas.
type Negotiator struct {
	jsonType string
}

// New creates a negotiator. jsonType is the content type of structured
// bodies; empty means application/json.
func New(jsonType string) *Negotiator {
	if jsonType == "" {
		jsonType = ContentJSON
	}

	return &Negotiator{jsonType: jsonType}
}

// RequestBody returns the request body of params, or nil if no parameter
// is bound from the body. path is the JSON pointer of the operation and is
// used for warnings.
func (n *Negotiator) RequestBody(w *walker.Walker, path string, params []Parameter) (*model.RequestBody, error) {
	var structured, forms []Parameter
	for _, p := range params {
		switch p.Source {
		case SourceBody, SourceStream:
			structured = append(structured, p)
		case SourceForm:
			forms = append(forms, p)
		}
	}

	switch {
	case len(structured) > 1:
		return nil, fmt.Errorf("%w: %d parameters bound from the body", ErrConflictingBody, len(structured))
	case len(structured) == 1 && len(forms) > 0:
		return nil, fmt.Errorf("%w: body parameter %q mixed with form fields", ErrConflictingBody, structured[0].Name)
	case len(structured) == 1:
		return n.structured(w, path+"/requestBody", structured[0]), nil
	case len(forms) > 0:
		return n.form(w, path+"/requestBody", forms), nil
	}

	return nil, nil
}

func (n *Negotiator) structured(w *walker.Walker, path string, p Parameter) *model.RequestBody {
	desc := p.Description
	if desc == "" && p.Type != nil {
		desc = p.Type.Description
	}
	body := &model.RequestBody{Description: desc, Required: p.Required}

	if p.isStream() {
		body.Content = map[string]*model.Schema{
			ContentOctetStream: {Type: model.TypeString, Format: "binary"},
		}
		return body
	}

	schema := w.BuildAt(path, p.Type, p.Nullable)
	w.ApplyConstraints(constraint.Set{Constraints: p.Constraints}, schema)
	body.Content = map[string]*model.Schema{n.jsonType: schema}

	return body
}

func (n *Negotiator) form(w *walker.Walker, path string, fields []Parameter) *model.RequestBody {
	schema := &model.Schema{}
	multipart := false

	for _, p := range fields {
		if p.isStream() || carriesStream(p.Type) {
			multipart = true
		}

		node := n.field(w, path+"/"+p.Name, p, true)
		props := model.NewProperties()
		props.Set(p.Name, node)

		wrapper := &model.Schema{Properties: props}
		if constraint.Extract(p.source()).Required {
			wrapper.Required = []string{p.Name}
		}
		schema.AllOf = append(schema.AllOf, wrapper)
	}

	body := &model.RequestBody{
		Required: true,
		Content:  map[string]*model.Schema{ContentForm: schema},
	}
	if multipart {
		body.Content[ContentMultipart] = schema
	}

	return body
}

// Parameters returns the schemas of the non-body parameters in order.
// Parameters have no null representation, so null bits are stripped;
// path parameters are always required.
func (n *Negotiator) Parameters(w *walker.Walker, path string, params []Parameter) []model.Parameter {
	var out []model.Parameter
	for _, p := range params {
		if p.Source.IsBody() {
			continue
		}

		set := constraint.Extract(p.source())
		out = append(out, model.Parameter{
			Name:        p.Name,
			In:          p.Source.String(),
			Description: set.Description,
			Required:    p.Source == SourcePath || set.Required,
			Schema:      n.field(w, path+"/parameters/"+p.Name, p, false),
		})
	}

	return out
}

// field builds a form field or parameter schema: null stripped,
// parameter constraints applied, default set. Parameters carry their
// description themselves, so only form fields keep it on the schema.
func (n *Negotiator) field(w *walker.Walker, path string, p Parameter, describe bool) *model.Schema {
	node := w.BuildAt(path, p.Type, false)
	stripNull(node)

	set := constraint.Extract(p.source())
	if !describe {
		set.Description = ""
	}
	w.ApplyConstraints(set, node)

	if p.HasDefault && !node.IsRef() && node.Default == nil {
		node.Default = p.Default
	}

	return node
}

// stripNull clears the null bit on node and its inline children.
// Components are shared and left untouched.
func stripNull(node *model.Schema) {
	if node == nil {
		return
	}
	node.Type = node.Type.Base()
	if node.IsRef() {
		return
	}

	stripNull(node.Items)
	if node.Additional != nil {
		stripNull(node.Additional.Schema)
	}
	for _, child := range node.Properties.All() {
		stripNull(child)
	}
}

// carriesStream reports whether t is a stream or a collection of streams.
func carriesStream(t *typeinfo.Type) bool {
	for depth := 0; t != nil && depth < 8; depth++ {
		switch t.Kind {
		case typeinfo.KindStream:
			return true
		case typeinfo.KindArray:
			t = t.Elem
		default:
			return false
		}
	}

	return false
}
