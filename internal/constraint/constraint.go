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

// Package constraint merges declarative constraints from one or more
// sources and applies them to schema nodes.
package constraint

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"rivaas.dev/schemagen/model"
	"rivaas.dev/schemagen/typeinfo"
)

// Source is one place constraints are declared, such as a property or a
// parameter.
type Source struct {
	Constraints []typeinfo.Constraint
	Description string
	Required    bool
	HasDefault  bool
}

// FromProperty returns the constraint source of a property descriptor.
func FromProperty(p typeinfo.Property) Source {
	return Source{
		Constraints: p.Constraints,
		Description: p.Description,
		Required:    p.Required,
		HasDefault:  p.HasDefault,
	}
}

// Set is the merged result of one or more sources.
type Set struct {
	Constraints []typeinfo.Constraint
	Description string

	// Required is true when any source declares required and no source
	// declares a default.
	Required bool
}

// Extract merges sources in order. Earlier sources take precedence for
// the description and, when applied, for each bound.
func Extract(sources ...Source) Set {
	var (
		set        Set
		required   bool
		hasDefault bool
	)

	for _, src := range sources {
		set.Constraints = append(set.Constraints, src.Constraints...)
		if set.Description == "" {
			set.Description = src.Description
		}
		if src.Required {
			required = true
		}
		if src.HasDefault {
			hasDefault = true
		}
		for _, c := range src.Constraints {
			if c.Kind == typeinfo.ConstraintRequired {
				required = true
			}
		}
	}

	set.Required = required && !hasDefault

	return set
}

// Issue describes a constraint that could not be applied.
type Issue struct {
	Constraint typeinfo.Constraint
	Malformed  bool
	Reason     string
}

// String returns a human-readable form of the issue.
func (i Issue) String() string {
	return i.Constraint.String() + ": " + i.Reason
}

// Apply writes the set's constraints and description onto node and
// returns the constraints that did not fit. A bound already present on the
// node is kept, so the first applied source wins. Reference nodes only
// accept a description.
func (s Set) Apply(node *model.Schema) []Issue {
	if node == nil {
		return nil
	}
	if s.Description != "" && node.Description == "" {
		node.Description = s.Description
	}

	var issues []Issue
	for _, c := range s.Constraints {
		if c.Kind == typeinfo.ConstraintRequired {
			continue
		}
		if node.IsRef() {
			issues = append(issues, Issue{Constraint: c, Reason: "reference schemas accept no constraints"})
			continue
		}
		if msg, malformed := check(c); msg != "" {
			issues = append(issues, Issue{Constraint: c, Malformed: malformed, Reason: msg})
			continue
		}
		if reason := apply(node, c); reason != "" {
			issues = append(issues, Issue{Constraint: c, Reason: reason})
		}
	}

	return issues
}

// check rejects constraints with unusable values.
func check(c typeinfo.Constraint) (string, bool) {
	for _, v := range []*float64{c.Min, c.Max} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return "bound is not a finite number", true
		}
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return fmt.Sprintf("minimum %g exceeds maximum %g", *c.Min, *c.Max), true
	}
	switch c.Kind {
	case typeinfo.ConstraintLength, typeinfo.ConstraintSize:
		if (c.Min != nil && *c.Min < 0) || (c.Max != nil && *c.Max < 0) {
			return "negative length", true
		}
	case typeinfo.ConstraintPattern:
		if c.Pattern == "" {
			return "empty pattern", true
		}
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return "invalid pattern: " + err.Error(), true
		}
	case typeinfo.ConstraintFormat:
		if c.Format == "" {
			return "empty format", true
		}
	case typeinfo.ConstraintOneOf:
		if len(c.Values) == 0 {
			return "empty value list", true
		}
	}

	return "", false
}

func apply(node *model.Schema, c typeinfo.Constraint) string {
	t := node.Type.Base()

	switch c.Kind {
	case typeinfo.ConstraintRange:
		switch {
		case t.Has(model.TypeInteger) || t.Has(model.TypeNumber):
			if c.Min != nil && node.Minimum == nil {
				node.Minimum = &model.Bound{Value: *c.Min, Exclusive: c.ExclusiveMin}
			}
			if c.Max != nil && node.Maximum == nil {
				node.Maximum = &model.Bound{Value: *c.Max, Exclusive: c.ExclusiveMax}
			}
		case t == model.TypeBoolean:
			// A range over a boolean has no schema form; it is dropped quietly.
		default:
			return "range applies to numbers only"
		}

	case typeinfo.ConstraintLength:
		switch {
		case t.Has(model.TypeString):
			setMin(&node.MinLength, c.Min)
			setMax(&node.MaxLength, c.Max)
		case t.Has(model.TypeArray):
			setMin(&node.MinItems, c.Min)
			setMax(&node.MaxItems, c.Max)
		default:
			return "length applies to strings and arrays only"
		}

	case typeinfo.ConstraintSize:
		switch {
		case t.Has(model.TypeArray):
			setMin(&node.MinItems, c.Min)
			setMax(&node.MaxItems, c.Max)
		case t.Has(model.TypeObject) && node.Additional != nil && node.Additional.Schema != nil:
			setMin(&node.MinProperties, c.Min)
			setMax(&node.MaxProperties, c.Max)
		default:
			return "size applies to arrays and maps only"
		}

	case typeinfo.ConstraintPattern:
		if !t.Has(model.TypeString) {
			return "pattern applies to strings only"
		}
		if node.Pattern == "" {
			node.Pattern = c.Pattern
		}

	case typeinfo.ConstraintFormat:
		if !t.Has(model.TypeString) {
			return "format applies to strings only"
		}
		if node.Format == "" {
			node.Format = c.Format
		}

	case typeinfo.ConstraintOneOf:
		if len(node.Enum) > 0 {
			return ""
		}
		for _, v := range c.Values {
			node.Enum = append(node.Enum, literal(v, t))
		}

	default:
		return "unknown constraint kind"
	}

	return ""
}

func setMin(dst **int, v *float64) {
	if v == nil || *dst != nil {
		return
	}
	n := int(math.Ceil(*v))
	*dst = &n
}

func setMax(dst **int, v *float64) {
	if v == nil || *dst != nil {
		return
	}
	n := int(math.Floor(*v))
	*dst = &n
}

// literal converts an enum value to the node's JSON type when it parses.
func literal(v string, t model.TypeFlags) any {
	if t.Has(model.TypeInteger) || t.Has(model.TypeNumber) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			if t.Has(model.TypeInteger) && f == math.Trunc(f) {
				return int64(f)
			}
			return f
		}
	}

	return v
}
