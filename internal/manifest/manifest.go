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

// Package manifest reads API descriptions from YAML, TOML or JSON files.
//
// A manifest declares named types and operations without Go source. Types
// are referenced by expression: a scalar name ("string", "int64",
// "date-time", ...), "binary" for a raw stream, a declared type name,
// "[]T" for arrays, "map[string]T" for maps and "?T" for a nullable
// occurrence of T.
//
//	types:
//	  - name: Todo
//	    properties:
//	      - {name: id, type: int64, required: true}
//	      - {name: title, type: "?string", validate: "max=200"}
//	operations:
//	  - method: POST
//	    path: /todos
//	    params:
//	      - {name: todo, in: body, type: Todo, required: true}
//	    responses:
//	      - {status: 201, type: Todo}
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest indicates a manifest that cannot be decoded or fails
// validation.
var ErrInvalidManifest = errors.New("schemagen: invalid manifest")

var manifestValidator = validator.New(validator.WithRequiredStructEnabled())

// File is a decoded manifest.
type File struct {
	Types      []TypeDef      `yaml:"types" toml:"types" json:"types" validate:"unique=Name,dive"`
	Operations []OperationDef `yaml:"operations" toml:"operations" json:"operations" validate:"required,min=1,dive"`
}

// TypeDef declares a named object or enum type. A type with Enum members
// is an enum; otherwise it is an object.
type TypeDef struct {
	Name        string        `yaml:"name" toml:"name" json:"name" validate:"required"`
	Description string        `yaml:"description" toml:"description" json:"description"`
	Strict      bool          `yaml:"strict" toml:"strict" json:"strict"`
	Enum        []string      `yaml:"enum" toml:"enum" json:"enum" validate:"excluded_with=Properties"`
	Default     string        `yaml:"default" toml:"default" json:"default"`
	Properties  []PropertyDef `yaml:"properties" toml:"properties" json:"properties" validate:"dive"`
}

// PropertyDef declares one object property.
type PropertyDef struct {
	Name        string `yaml:"name" toml:"name" json:"name" validate:"required"`
	Type        string `yaml:"type" toml:"type" json:"type" validate:"required"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Validate    string `yaml:"validate" toml:"validate" json:"validate"`
	Required    bool   `yaml:"required" toml:"required" json:"required"`
	Default     any    `yaml:"default" toml:"default" json:"default"`
}

// OperationDef declares one operation.
type OperationDef struct {
	Method      string        `yaml:"method" toml:"method" json:"method" validate:"required"`
	Path        string        `yaml:"path" toml:"path" json:"path" validate:"required,startswith=/"`
	ID          string        `yaml:"id" toml:"id" json:"id"`
	Summary     string        `yaml:"summary" toml:"summary" json:"summary"`
	Description string        `yaml:"description" toml:"description" json:"description"`
	Tags        []string      `yaml:"tags" toml:"tags" json:"tags"`
	Deprecated  bool          `yaml:"deprecated" toml:"deprecated" json:"deprecated"`
	Params      []ParamDef    `yaml:"params" toml:"params" json:"params" validate:"dive"`
	Responses   []ResponseDef `yaml:"responses" toml:"responses" json:"responses" validate:"dive"`
}

// ParamDef declares one operation parameter.
type ParamDef struct {
	Name        string `yaml:"name" toml:"name" json:"name" validate:"required"`
	In          string `yaml:"in" toml:"in" json:"in" validate:"required,oneof=body form stream query path header cookie"`
	Type        string `yaml:"type" toml:"type" json:"type" validate:"required_unless=In stream"`
	Required    bool   `yaml:"required" toml:"required" json:"required"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Validate    string `yaml:"validate" toml:"validate" json:"validate"`
	Default     any    `yaml:"default" toml:"default" json:"default"`
}

// ResponseDef declares the body of one status code. An empty Type declares
// a response without content.
type ResponseDef struct {
	Status      int    `yaml:"status" toml:"status" json:"status" validate:"gte=100,lte=599"`
	Type        string `yaml:"type" toml:"type" json:"type"`
	Description string `yaml:"description" toml:"description" json:"description"`
	ContentType string `yaml:"content_type" toml:"content_type" json:"content_type"`
}

// Load reads a manifest file, choosing the format by extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemagen: reading manifest: %w", err)
	}

	return Parse(data, filepath.Ext(path))
}

// Parse decodes a manifest in the format named by ext (".yaml", ".yml",
// ".toml" or ".json") and validates it. Unknown keys are rejected.
func Parse(data []byte, ext string) (*File, error) {
	var f File

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %s", ErrInvalidManifest, undecoded[0])
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidManifest, ext)
	}

	if err := manifestValidator.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	return &f, nil
}
