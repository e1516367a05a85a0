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
	"reflect"
	"strings"
)

// identity returns a stable identity for t: the package path qualified
// name for named types, the type literal otherwise.
func identity(t reflect.Type) Identity {
	if t.Name() != "" && t.PkgPath() != "" {
		return Identity(t.PkgPath() + "." + t.Name())
	}

	return Identity(t.String())
}

// typeName returns the component base name of t. Unnamed types yield "".
func typeName(t reflect.Type) string {
	if t.Name() == "" {
		return ""
	}

	return SanitizeName(t.Name())
}

// SanitizeName turns a declared type name into a component name made of
// [A-Za-z0-9._-]. Generic instantiations keep their type arguments'
// simple names, separated by underscores:
//
//	Page[example.com/api.User] -> Page_User
func SanitizeName(name string) string {
	base, args, generic := strings.Cut(name, "[")
	if !generic {
		return clean(simple(name))
	}

	parts := []string{clean(simple(base))}
	for _, arg := range splitArgs(strings.TrimSuffix(args, "]")) {
		if s := SanitizeName(arg); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, "_")
}

// simple strips the package path and package name from a qualified name.
func simple(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return name
}

// splitArgs splits a type argument list at top-level commas.
func splitArgs(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	return append(out, strings.TrimSpace(s[start:]))
}

func clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}

		return -1
	}, s)
}
