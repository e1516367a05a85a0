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
	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/model"
)

// Result contains the generated document.
type Result struct {
	// Document holds one schema view per operation and the shared
	// component table.
	Document *model.Document

	// Warnings contains informational, non-fatal issues.
	// The document is complete and consistent even when warnings exist;
	// degraded parts are described by the warnings.
	//
	// Import "rivaas.dev/schemagen/diag" for type-safe warning code checks.
	Warnings diag.Warnings
}
