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
	"errors"

	"rivaas.dev/schemagen/export"
	"rivaas.dev/schemagen/internal/build"
	"rivaas.dev/schemagen/internal/negotiate"
)

// Configuration Errors (returned by New and LoadConfig)
var (
	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("schemagen: invalid configuration")

	// ErrUnsupportedConfigFormat indicates a configuration file extension
	// other than .yaml, .yml, .toml or .json.
	ErrUnsupportedConfigFormat = errors.New("schemagen: unsupported configuration format")
)

// Generation Errors (returned by Generate)
var (
	// ErrDuplicateOperationID indicates two operations have the same ID.
	ErrDuplicateOperationID = build.ErrDuplicateOperationID

	// ErrNoOperations indicates Generate was called with no operations.
	ErrNoOperations = build.ErrNoOperations

	// ErrInvalidOperation indicates an operation without method or with a
	// malformed path.
	ErrInvalidOperation = errors.New("schemagen: invalid operation")

	// ErrUnknownType indicates a type reference that does not resolve.
	ErrUnknownType = errors.New("schemagen: unknown type")
)

// Degradation causes. These never fail a build; they appear wrapped in
// warning messages.
var (
	// ErrConflictingBody indicates an operation binds its body from
	// incompatible sources, e.g. a JSON body next to form fields.
	ErrConflictingBody = negotiate.ErrConflictingBody
)

// Export Errors
var (
	// ErrSchemaValidation indicates an exported document failed validation.
	ErrSchemaValidation = export.ErrSchemaValidation
)
