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

package diag

import (
	"fmt"
	"strings"
)

// Warning represents an informational, non-fatal issue during generation.
type Warning interface {
	// Code returns the warning identifier.
	Code() WarningCode

	// Path returns the JSON pointer to the affected element.
	// Example: "#/components/schemas/Todo/properties/title"
	Path() string

	// Message returns a human-readable description.
	Message() string

	// Category returns the warning's category for grouping.
	Category() WarningCategory

	// String returns a formatted representation.
	String() string
}

// WarningCode identifies a specific warning type.
type WarningCode string

// String returns the code as a string.
func (c WarningCode) String() string {
	return string(c)
}

// Category returns the code's category.
func (c WarningCode) Category() WarningCategory {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "DEGRADED"):
		return CategoryDegraded
	case strings.HasPrefix(s, "CONSTRAINT"):
		return CategoryConstraint
	case strings.HasPrefix(s, "NAMING"):
		return CategoryNaming
	case strings.HasPrefix(s, "DOWNLEVEL"):
		return CategoryDownlevel
	default:
		return CategoryUnknown
	}
}

// Degraded output
const (
	// WarnUnsupportedType indicates a type shape fell back to an empty object schema.
	WarnUnsupportedType WarningCode = "DEGRADED_UNSUPPORTED_TYPE"

	// WarnRecursiveInline indicates an anonymous collection type refers to itself.
	// The recursive occurrence is emitted as an empty schema.
	WarnRecursiveInline WarningCode = "DEGRADED_RECURSIVE_INLINE"

	// WarnOperationDegraded indicates an operation's request body could not be
	// resolved and was left absent.
	WarnOperationDegraded WarningCode = "DEGRADED_OPERATION"

	// WarnEnumDefault indicates an enum default that is not one of its members was dropped.
	WarnEnumDefault WarningCode = "DEGRADED_ENUM_DEFAULT"
)

// Constraint handling
const (
	// WarnConstraintIgnored indicates a constraint was incompatible with the
	// target schema (e.g. a length constraint on an integer) and was dropped.
	WarnConstraintIgnored WarningCode = "CONSTRAINT_IGNORED"

	// WarnConstraintMalformed indicates a constraint carried an unusable value.
	WarnConstraintMalformed WarningCode = "CONSTRAINT_MALFORMED"
)

// Naming
const (
	// WarnNameCollision indicates two type identities share a simple name and
	// the later one received a numeric suffix.
	WarnNameCollision WarningCode = "NAMING_COLLISION"
)

// Export
const (
	// WarnDownlevelTypeUnion indicates a multi-type schema was narrowed to its
	// first type for OpenAPI 3.0.
	WarnDownlevelTypeUnion WarningCode = "DOWNLEVEL_TYPE_UNION"

	// WarnDownlevelContentEncoding indicates contentEncoding was dropped for OpenAPI 3.0.
	WarnDownlevelContentEncoding WarningCode = "DOWNLEVEL_CONTENT_ENCODING"
)

// WarningCategory groups related warning types.
type WarningCategory string

const (
	// CategoryUnknown for unrecognized warning codes.
	CategoryUnknown WarningCategory = "unknown"

	// CategoryDegraded for parts of the document that fell back to a simpler shape.
	CategoryDegraded WarningCategory = "degraded"

	// CategoryConstraint for constraints that were not applied.
	CategoryConstraint WarningCategory = "constraint"

	// CategoryNaming for component naming adjustments.
	CategoryNaming WarningCategory = "naming"

	// CategoryDownlevel for features lost when exporting to OpenAPI 3.0.
	CategoryDownlevel WarningCategory = "downlevel"
)

// String returns the category as a string.
func (c WarningCategory) String() string {
	return string(c)
}

// Warnings is a collection of Warning with helper methods.
type Warnings []Warning

// Has returns true if any warning matches the given code.
func (ws Warnings) Has(code WarningCode) bool {
	for _, w := range ws {
		if w.Code() == code {
			return true
		}
	}

	return false
}

// HasCategory returns true if any warning is in the given category.
func (ws Warnings) HasCategory(cat WarningCategory) bool {
	for _, w := range ws {
		if w.Category() == cat {
			return true
		}
	}

	return false
}

// Filter returns warnings matching the given codes.
func (ws Warnings) Filter(codes ...WarningCode) Warnings {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[WarningCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	result := make(Warnings, 0, len(ws))
	for _, w := range ws {
		if _, ok := set[w.Code()]; ok {
			result = append(result, w)
		}
	}

	return result
}

// FilterCategory returns warnings in the given category.
func (ws Warnings) FilterCategory(cat WarningCategory) Warnings {
	result := make(Warnings, 0, len(ws))
	for _, w := range ws {
		if w.Category() == cat {
			result = append(result, w)
		}
	}

	return result
}

// Codes returns all unique warning codes in this collection, in first-seen order.
func (ws Warnings) Codes() []WarningCode {
	seen := make(map[WarningCode]struct{}, len(ws))
	codes := make([]WarningCode, 0, len(ws))
	for _, w := range ws {
		if _, ok := seen[w.Code()]; !ok {
			seen[w.Code()] = struct{}{}
			codes = append(codes, w.Code())
		}
	}

	return codes
}

// String returns a formatted string of all warnings.
func (ws Warnings) String() string {
	if len(ws) == 0 {
		return "no warnings"
	}
	var s strings.Builder
	fmt.Fprintf(&s, "%d warning(s):", len(ws))
	for i, w := range ws {
		fmt.Fprintf(&s, "\n  [%d] %s", i+1, w.String())
	}

	return s.String()
}

// warning is the concrete implementation of Warning interface.
type warning struct {
	code    WarningCode
	path    string
	message string
}

func (w *warning) Code() WarningCode {
	return w.code
}

func (w *warning) Path() string {
	return w.path
}

func (w *warning) Message() string {
	return w.message
}

func (w *warning) Category() WarningCategory {
	return w.code.Category()
}

func (w *warning) String() string {
	if w.path == "" {
		return fmt.Sprintf("[%s] %s: %s", w.code.Category(), w.code, w.message)
	}

	return fmt.Sprintf("[%s] %s at %s: %s", w.code.Category(), w.code, w.path, w.message)
}

// NewWarning creates a new Warning instance.
func NewWarning(code WarningCode, path, message string) Warning {
	return &warning{
		code:    code,
		path:    path,
		message: message,
	}
}
