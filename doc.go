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

// Package schemagen generates JSON Schema documents for API operations
// from type descriptors.
//
// Each operation declares its parameters together with where they are bound
// from (structured body, form field, raw stream, query, path, header or
// cookie). [Generator.Generate] turns the declared types into schema nodes,
// registers every named object type once as a shared component, and
// derives each operation's request body by content negotiation.
//
// # Features
//
//   - Types from Go values via reflection and struct tags, or hand-built
//     [typeinfo.Type] descriptors
//   - Cycle-safe walking of self- and mutually-recursive types
//   - Deterministic component names with numeric suffixes on collision
//   - Nullability as a "null" type bit, never a wrapper schema
//   - JSON, form (urlencoded and multipart) and octet-stream bodies
//   - Constraints from validate tags (min, max, len, oneof, email, ...)
//   - Per-operation failure isolation with typed warnings
//   - Optional parallel builds with identical output
//
// # Quick Start
//
//	gen := schemagen.MustNew(schemagen.WithConcurrency(4))
//
//	result, err := gen.Generate(ctx,
//	    schemagen.POST("/todos",
//	        schemagen.WithParams(schemagen.Body("todo", Todo{}, schemagen.Required())),
//	        schemagen.WithResponse(201, Todo{}),
//	    ),
//	    schemagen.POST("/upload",
//	        schemagen.WithParams(
//	            schemagen.Form("name", ""),
//	            schemagen.Form("file", (*multipart.FileHeader)(nil)),
//	        ),
//	    ),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, w := range result.Warnings {
//	    log.Println(w)
//	}
//
// The in-memory [model.Document] can be serialized as an OpenAPI 3.0 or
// 3.1 document with the export package.
package schemagen
