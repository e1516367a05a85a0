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
	"net/http"
	"reflect"

	"rivaas.dev/schemagen/internal/negotiate"
)

// Operation is one API operation: an HTTP method, a path and the types
// bound by its parameters and responses.
// Create operations using the HTTP method constructors: GET, POST, PUT, PATCH, DELETE.
type Operation struct {
	Method string // HTTP method (GET, POST, etc.)
	Path   string // URL path with parameters (e.g. "/todos/:id")
	doc    operationDoc
}

// OperationOption configures an [Operation].
type OperationOption func(*operationDoc)

type operationDoc struct {
	Summary     string
	Description string
	OperationID string
	Tags        []string
	Deprecated  bool

	Params   []Param
	Requests []request

	Responses []response
}

type request struct {
	typ  reflect.Type
	opts []ParamOption
}

type response struct {
	status      int
	typ         any
	nullable    bool
	description string
	contentType string
}

// Op creates an Operation for an arbitrary method.
func Op(method, path string, opts ...OperationOption) Operation {
	var doc operationDoc
	for _, opt := range opts {
		opt(&doc)
	}

	return Operation{Method: method, Path: path, doc: doc}
}

// GET creates an Operation for a GET request.
//
// Example:
//
//	schemagen.GET("/todos/:id",
//	    schemagen.WithResponse(200, Todo{}),
//	)
func GET(path string, opts ...OperationOption) Operation {
	return Op(http.MethodGet, path, opts...)
}

// POST creates an Operation for a POST request.
//
// Example:
//
//	schemagen.POST("/todos",
//	    schemagen.WithParams(schemagen.Body("todo", Todo{})),
//	    schemagen.WithResponse(201, Todo{}),
//	)
func POST(path string, opts ...OperationOption) Operation {
	return Op(http.MethodPost, path, opts...)
}

// PUT creates an Operation for a PUT request.
func PUT(path string, opts ...OperationOption) Operation {
	return Op(http.MethodPut, path, opts...)
}

// PATCH creates an Operation for a PATCH request.
func PATCH(path string, opts ...OperationOption) Operation {
	return Op(http.MethodPatch, path, opts...)
}

// DELETE creates an Operation for a DELETE request.
func DELETE(path string, opts ...OperationOption) Operation {
	return Op(http.MethodDelete, path, opts...)
}

// WithSummary sets the operation summary.
func WithSummary(s string) OperationOption {
	return func(d *operationDoc) { d.Summary = s }
}

// WithDescription sets the operation description.
func WithDescription(s string) OperationOption {
	return func(d *operationDoc) { d.Description = s }
}

// WithOperationID sets a custom operation ID.
// Without one, an ID is derived from the method and path.
func WithOperationID(id string) OperationOption {
	return func(d *operationDoc) { d.OperationID = id }
}

// WithTags adds tags to the operation.
func WithTags(tags ...string) OperationOption {
	return func(d *operationDoc) { d.Tags = append(d.Tags, tags...) }
}

// WithDeprecated marks the operation as deprecated.
func WithDeprecated() OperationOption {
	return func(d *operationDoc) { d.Deprecated = true }
}

// WithParams adds parameters to the operation, in order.
//
// Example:
//
//	schemagen.GET("/todos",
//	    schemagen.WithParams(
//	        schemagen.Query("page", 0, schemagen.Default(1)),
//	        schemagen.Header("X-Tenant", "", schemagen.Required()),
//	    ),
//	)
func WithParams(params ...Param) OperationOption {
	return func(d *operationDoc) { d.Params = append(d.Params, params...) }
}

// WithRequest binds the fields of a request struct. Fields tagged query,
// path, header, cookie or form become parameters; if any field has a json
// tag, the struct is also the JSON body. opts apply to that body.
//
// Example:
//
//	type UpdateTodo struct {
//	    ID    int    `path:"id"`
//	    Title string `json:"title" validate:"required"`
//	}
//
//	schemagen.PATCH("/todos/:id", schemagen.WithRequest(UpdateTodo{}, schemagen.Required()))
func WithRequest(req any, opts ...ParamOption) OperationOption {
	return func(d *operationDoc) {
		d.Requests = append(d.Requests, request{typ: reflect.TypeOf(req), opts: opts})
	}
}

// WithResponse declares the body of a status code. resp is a Go value, a
// reflect.Type or a *typeinfo.Type; nil declares a response without content.
//
// Example:
//
//	schemagen.GET("/todos/:id",
//	    schemagen.WithResponse(200, Todo{}),
//	    schemagen.WithResponse(404, ErrorBody{}),
//	)
func WithResponse(status int, resp any) OperationOption {
	return func(d *operationDoc) {
		d.Responses = append(d.Responses, response{status: status, typ: resp})
	}
}

// WithResponseDescription sets the description of a declared status code.
func WithResponseDescription(status int, desc string) OperationOption {
	return func(d *operationDoc) {
		for i := range d.Responses {
			if d.Responses[i].status == status {
				d.Responses[i].description = desc
			}
		}
	}
}

// WithResponseNullable declares the body of a status code nullable.
// Pointer types are nullable without it.
func WithResponseNullable(status int) OperationOption {
	return func(d *operationDoc) {
		for i := range d.Responses {
			if d.Responses[i].status == status {
				d.Responses[i].nullable = true
			}
		}
	}
}

// WithResponseContentType sets the content type of a declared status code.
func WithResponseContentType(status int, ct string) OperationOption {
	return func(d *operationDoc) {
		for i := range d.Responses {
			if d.Responses[i].status == status {
				d.Responses[i].contentType = ct
			}
		}
	}
}

// Param is one parameter of an operation and the type it binds.
// Create params using Body, Form, Stream, Query, Path, Header and Cookie.
type Param struct {
	name   string
	source negotiate.Source
	typ    any

	required    bool
	nullable    bool
	description string
	validate    string
	def         any
	hasDefault  bool
}

// ParamOption configures a [Param].
type ParamOption func(*Param)

func newParam(name string, src negotiate.Source, typ any, opts []ParamOption) Param {
	p := Param{name: name, source: src, typ: typ}
	for _, opt := range opts {
		opt(&p)
	}

	return p
}

// Body binds a structured value from the request body.
// typ is a Go value, a reflect.Type or a *typeinfo.Type.
func Body(name string, typ any, opts ...ParamOption) Param {
	return newParam(name, negotiate.SourceBody, typ, opts)
}

// Form binds one form field. Operations with form fields get a
// urlencoded body, plus multipart when a field is a file.
func Form(name string, typ any, opts ...ParamOption) Param {
	return newParam(name, negotiate.SourceForm, typ, opts)
}

// Stream binds the raw request body.
func Stream(name string, opts ...ParamOption) Param {
	return newParam(name, negotiate.SourceStream, nil, opts)
}

// Query binds a query parameter.
func Query(name string, typ any, opts ...ParamOption) Param {
	return newParam(name, negotiate.SourceQuery, typ, opts)
}

// Path binds a path parameter. Path parameters are always required.
func Path(name string, typ any, opts ...ParamOption) Param {
	return newParam(name, negotiate.SourcePath, typ, opts)
}

// Header binds a header parameter.
func Header(name string, typ any, opts ...ParamOption) Param {
	return newParam(name, negotiate.SourceHeader, typ, opts)
}

// Cookie binds a cookie parameter.
func Cookie(name string, typ any, opts ...ParamOption) Param {
	return newParam(name, negotiate.SourceCookie, typ, opts)
}

// Required declares the parameter required. For a structured body this
// makes the body itself required.
func Required() ParamOption {
	return func(p *Param) { p.required = true }
}

// Nullable declares the parameter nullable. Pointer types are nullable
// without this option.
func Nullable() ParamOption {
	return func(p *Param) { p.nullable = true }
}

// Describe sets the parameter description. For a body it takes precedence
// over the type's own description.
func Describe(desc string) ParamOption {
	return func(p *Param) { p.description = desc }
}

// Validate attaches go-playground/validator style rules, e.g. "min=1,max=50".
func Validate(tag string) ParamOption {
	return func(p *Param) { p.validate = tag }
}

// Default declares a default value. Parameters with a default are never
// required, even when declared so.
func Default(v any) ParamOption {
	return func(p *Param) {
		p.def = v
		p.hasDefault = true
	}
}
