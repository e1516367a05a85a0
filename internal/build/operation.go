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

package build

import (
	"rivaas.dev/schemagen/internal/negotiate"
	"rivaas.dev/schemagen/typeinfo"
)

// Operation is the assembler input for one API operation.
// It mirrors the public operation type without importing it.
type Operation struct {
	ID          string
	Method      string
	Path        string // "/todos/:id" or "/todos/{id}"
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool

	Params    []negotiate.Parameter
	Responses []Response
}

// Response declares the body type of one status code.
// A nil Type declares a response without content.
type Response struct {
	Status      int
	Type        *typeinfo.Type
	Nullable    bool
	Description string
	ContentType string
}
