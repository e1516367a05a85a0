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

package typeinfo

import (
	"strconv"
	"strings"
)

// ConstraintKind enumerates the recognized constraint kinds.
type ConstraintKind uint8

const (
	// ConstraintRange bounds a numeric value (minimum/maximum).
	ConstraintRange ConstraintKind = iota + 1

	// ConstraintLength bounds the length of a string, or the item count of a collection.
	ConstraintLength

	// ConstraintSize bounds the number of entries of a collection or map.
	ConstraintSize

	// ConstraintPattern restricts a string to a regular expression.
	ConstraintPattern

	// ConstraintRequired marks a property as required.
	ConstraintRequired

	// ConstraintFormat refines a string's format (email, uri, uuid, ...).
	ConstraintFormat

	// ConstraintOneOf restricts a value to a fixed set of literals.
	ConstraintOneOf
)

var constraintNames = [...]string{
	ConstraintRange:    "range",
	ConstraintLength:   "length",
	ConstraintSize:     "size",
	ConstraintPattern:  "pattern",
	ConstraintRequired: "required",
	ConstraintFormat:   "format",
	ConstraintOneOf:    "oneof",
}

// String returns the constraint kind name.
func (k ConstraintKind) String() string {
	if int(k) < len(constraintNames) && constraintNames[k] != "" {
		return constraintNames[k]
	}

	return "ConstraintKind(" + strconv.Itoa(int(k)) + ")"
}

// Constraint is one declarative validation rule.
type Constraint struct {
	Kind ConstraintKind

	// Min and Max bound ranges, lengths and sizes. Nil means unbounded.
	Min, Max     *float64
	ExclusiveMin bool
	ExclusiveMax bool

	Pattern string
	Format  string
	Values  []string
}

// String returns a compact representation, e.g. "length[1,50]".
func (c Constraint) String() string {
	var b strings.Builder
	b.WriteString(c.Kind.String())
	switch c.Kind {
	case ConstraintRange, ConstraintLength, ConstraintSize:
		if c.ExclusiveMin {
			b.WriteByte('(')
		} else {
			b.WriteByte('[')
		}
		if c.Min != nil {
			b.WriteString(strconv.FormatFloat(*c.Min, 'g', -1, 64))
		}
		b.WriteByte(',')
		if c.Max != nil {
			b.WriteString(strconv.FormatFloat(*c.Max, 'g', -1, 64))
		}
		if c.ExclusiveMax {
			b.WriteByte(')')
		} else {
			b.WriteByte(']')
		}
	case ConstraintPattern:
		b.WriteString("=" + c.Pattern)
	case ConstraintFormat:
		b.WriteString("=" + c.Format)
	case ConstraintOneOf:
		b.WriteString("=" + strings.Join(c.Values, " "))
	}

	return b.String()
}

// Range returns a numeric range constraint.
func Range(minimum, maximum *float64) Constraint {
	return Constraint{Kind: ConstraintRange, Min: minimum, Max: maximum}
}

// Length returns a length constraint.
func Length(minimum, maximum *float64) Constraint {
	return Constraint{Kind: ConstraintLength, Min: minimum, Max: maximum}
}

// Size returns a collection size constraint.
func Size(minimum, maximum *float64) Constraint {
	return Constraint{Kind: ConstraintSize, Min: minimum, Max: maximum}
}

// Pattern returns a pattern constraint.
func Pattern(expr string) Constraint {
	return Constraint{Kind: ConstraintPattern, Pattern: expr}
}

// Required returns a required constraint.
func Required() Constraint {
	return Constraint{Kind: ConstraintRequired}
}

// Float returns a pointer to v, for building bounds.
func Float(v float64) *float64 {
	return &v
}

// Format hints implied by validator tags.
var tagFormats = map[string]string{
	"email":    "email",
	"url":      "uri",
	"uri":      "uri",
	"http_url": "uri",
	"uuid":     "uuid",
	"uuid4":    "uuid",
	"ipv4":     "ipv4",
	"ipv6":     "ipv6",
	"ip":       "ip",
	"hostname": "hostname",
	"datetime": "date-time",
}

// Patterns implied by validator tags.
var tagPatterns = map[string]string{
	"alpha":       "^[a-zA-Z]+$",
	"alphanum":    "^[a-zA-Z0-9]+$",
	"numeric":     "^[-+]?[0-9]+(?:\\.[0-9]+)?$",
	"number":      "^[0-9]+$",
	"hexadecimal": "^(0[xX])?[0-9a-fA-F]+$",
	"lowercase":   "^[^A-Z]*$",
	"uppercase":   "^[^a-z]*$",
}

// ParseValidateTag parses a go-playground/validator style tag into constraints.
//
// The meaning of min, max, len, gt, gte, lt and lte follows the validator:
// they bound the value of numbers, the length of strings and arrays and the
// entry count of maps. Parsing stops at "dive", whose rules target elements.
// Unknown rules and malformed values are skipped.
func ParseValidateTag(tag string, t *Type) []Constraint {
	if tag == "" {
		return nil
	}

	bound := boundKind(t)
	var out []Constraint

	for part := range strings.SplitSeq(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "dive" || part == "keys" {
			break
		}

		name, param, _ := strings.Cut(part, "=")

		switch name {
		case "required":
			out = append(out, Required())
		case "min", "gte":
			if v, ok := parseFloat(param); ok {
				out = append(out, Constraint{Kind: bound, Min: &v})
			}
		case "max", "lte":
			if v, ok := parseFloat(param); ok {
				out = append(out, Constraint{Kind: bound, Max: &v})
			}
		case "gt":
			if v, ok := parseFloat(param); ok {
				out = append(out, exclusiveMin(bound, v))
			}
		case "lt":
			if v, ok := parseFloat(param); ok {
				out = append(out, exclusiveMax(bound, v))
			}
		case "len", "eq":
			if name == "eq" && bound != ConstraintRange {
				continue
			}
			if v, ok := parseFloat(param); ok {
				out = append(out, Constraint{Kind: bound, Min: &v, Max: Float(v)})
			}
		case "minlen", "minLength":
			if v, ok := parseFloat(param); ok {
				out = append(out, Length(&v, nil))
			}
		case "maxlen", "maxLength":
			if v, ok := parseFloat(param); ok {
				out = append(out, Length(nil, &v))
			}
		case "oneof":
			if vals := strings.Fields(param); len(vals) > 0 {
				out = append(out, Constraint{Kind: ConstraintOneOf, Values: vals})
			}
		default:
			if f, ok := tagFormats[name]; ok {
				out = append(out, Constraint{Kind: ConstraintFormat, Format: f})
			} else if p, ok := tagPatterns[name]; ok {
				out = append(out, Pattern(p))
			}
		}
	}

	return out
}

// boundKind picks the constraint kind for min/max style rules on t.
func boundKind(t *Type) ConstraintKind {
	if t == nil {
		return ConstraintRange
	}
	switch t.Kind {
	case KindArray:
		return ConstraintLength
	case KindMap:
		return ConstraintSize
	case KindEnum:
		return ConstraintLength
	case KindScalar:
		if t.Scalar.Textual() {
			return ConstraintLength
		}
	}

	return ConstraintRange
}

// exclusiveMin converts gt=v. Lengths are integral, so gt=v becomes min=v+1.
func exclusiveMin(kind ConstraintKind, v float64) Constraint {
	if kind == ConstraintRange {
		return Constraint{Kind: kind, Min: &v, ExclusiveMin: true}
	}

	return Constraint{Kind: kind, Min: Float(v + 1)}
}

// exclusiveMax converts lt=v. Lengths are integral, so lt=v becomes max=v-1.
func exclusiveMax(kind ConstraintKind, v float64) Constraint {
	if kind == ConstraintRange {
		return Constraint{Kind: kind, Max: &v, ExclusiveMax: true}
	}

	return Constraint{Kind: kind, Max: Float(v - 1)}
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
