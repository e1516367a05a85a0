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
	"net/http"
	"strings"
	"unicode"
)

// pathParamNames returns the parameter names of a route path. Both
// ":name" and "{name}" segments are recognized.
func pathParamNames(path string) []string {
	var out []string
	for seg := range strings.SplitSeq(path, "/") {
		if name, ok := strings.CutPrefix(seg, ":"); ok && name != "" {
			out = append(out, name)
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2 {
			out = append(out, seg[1:len(seg)-1])
		}
	}

	return out
}

// ConvertPath converts a ":name" route pattern to the "{name}" form.
func ConvertPath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		if after, found := strings.CutPrefix(part, ":"); found {
			parts[i] = "{" + after + "}"
		}
	}

	return strings.Join(parts, "/")
}

// pointer escapes s for use as a JSON pointer segment.
func pointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}

// generateOperationID creates a semantic operation identifier from the
// HTTP method and path, e.g. GET /users/:id -> getUserById.
func generateOperationID(method, path string) string {
	method = strings.ToUpper(method)
	verb := methodToVerb(method)

	segments := strings.Split(strings.Trim(ConvertPath(path), "/"), "/")
	if len(segments) == 1 && segments[0] == "" {
		return verb + "Root"
	}

	var (
		resourceParts []string
		lastParam     string
	)

	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if isParam(seg) {
			lastParam = strings.Trim(seg, "{}")
			continue
		}

		switch {
		case i+1 < len(segments) && isParam(segments[i+1]):
			resourceParts = append(resourceParts, capitalize(singularize(seg)))
		case method == http.MethodGet || method == http.MethodDelete:
			resourceParts = append(resourceParts, capitalize(seg))
		default:
			resourceParts = append(resourceParts, capitalize(singularize(seg)))
		}
	}

	result := verb + strings.Join(resourceParts, "")
	if lastParam != "" {
		result += "By" + capitalize(lastParam)
	}

	return result
}

func isParam(seg string) bool {
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}

func methodToVerb(method string) string {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return "get"
	case http.MethodPost:
		return "create"
	case http.MethodPut:
		return "replace"
	case http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	case http.MethodHead:
		return "head"
	case http.MethodOptions:
		return "options"
	default:
		return strings.ToLower(method)
	}
}

// singularize converts plural words to singular (simple implementation).
func singularize(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ses") && len(word) > 3,
		strings.HasSuffix(word, "ches") && len(word) > 4,
		strings.HasSuffix(word, "xes") && len(word) > 3:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && len(word) > 1:
		return word[:len(word)-1]
	}

	return word
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

// httpStatusText returns a description for an HTTP status code.
func httpStatusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}

	return "Response"
}
