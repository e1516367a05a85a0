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

/*
Package diag provides diagnostic types for schema generation.

Warnings are informational, non-fatal issues. A build that produces warnings
still yields a complete document: unsupported types degrade to an empty
object schema, incompatible constraints are dropped, colliding component names
are suffixed and an operation whose body cannot be resolved keeps its other
parts.

# Type-Safe Warning Checks

	result, _ := gen.Generate(ctx, ops...)

	if result.Warnings.Has(diag.WarnNameCollision) {
	    log.Warn("two types share a simple name")
	}

	degraded := result.Warnings.FilterCategory(diag.CategoryDegraded)

# Warning Categories

  - CategoryDegraded: part of the document fell back to a simpler shape
  - CategoryConstraint: declarative constraints that could not be applied
  - CategoryNaming: component naming adjustments
  - CategoryDownlevel: features lost when exporting to OpenAPI 3.0

Configuration and duplicate operation identifiers are ERRORS, not warnings.
*/
package diag
