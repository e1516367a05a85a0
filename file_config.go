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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk configuration of the generator and its export.
type FileConfig struct {
	Concurrency        int    `yaml:"concurrency" toml:"concurrency" json:"concurrency" validate:"gte=1,lte=256"`
	StrictObjects      bool   `yaml:"strict_objects" toml:"strict_objects" json:"strict_objects"`
	DefaultContentType string `yaml:"default_content_type" toml:"default_content_type" json:"default_content_type" validate:"required,contains=/"`
	LogLevel           string `yaml:"log_level" toml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`

	Export ExportConfig `yaml:"export" toml:"export" json:"export"`
}

// ExportConfig configures the serialized document.
type ExportConfig struct {
	// Version is the target OpenAPI version: "3.0" or "3.1".
	Version    string `yaml:"version" toml:"version" json:"version" validate:"oneof=3.0 3.1"`
	Title      string `yaml:"title" toml:"title" json:"title" validate:"required"`
	APIVersion string `yaml:"api_version" toml:"api_version" json:"api_version" validate:"required"`
	Format     string `yaml:"format" toml:"format" json:"format" validate:"oneof=json yaml"`
	Validate   bool   `yaml:"validate" toml:"validate" json:"validate"`
}

// DefaultFileConfig returns the configuration used for unset fields.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Concurrency:        1,
		DefaultContentType: "application/json",
		LogLevel:           "warn",
		Export: ExportConfig{
			Version:    "3.1",
			Title:      "API",
			APIVersion: "1.0.0",
			Format:     "json",
		},
	}
}

// LoadConfig reads a YAML, TOML or JSON configuration file, chosen by
// extension. Unset fields take their value from [DefaultFileConfig].
//
// Example:
//
//	cfg, err := schemagen.LoadConfig("schemagen.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen, err := schemagen.New(cfg.Options(os.Stderr)...)
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemagen: reading config: %w", err)
	}

	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes a configuration in the format named by ext
// (".yaml", ".yml", ".toml" or ".json").
func ParseConfig(data []byte, ext string) (*FileConfig, error) {
	var cfg FileConfig

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %s", ErrInvalidConfig, undecoded[0])
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, ext)
	}

	if err := mergo.Merge(&cfg, DefaultFileConfig()); err != nil {
		return nil, fmt.Errorf("schemagen: applying config defaults: %w", err)
	}

	if err := configValidator.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

// Level returns the configured log level.
func (c *FileConfig) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}

	return l
}

// Options converts the configuration into generator options. Logs are
// written as text to w at the configured level; a nil w discards them.
func (c *FileConfig) Options(w io.Writer) []Option {
	opts := []Option{
		WithConcurrency(c.Concurrency),
		WithStrictObjects(c.StrictObjects),
		WithDefaultContentType(c.DefaultContentType),
	}
	if w != nil {
		opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))))
	}

	return opts
}
