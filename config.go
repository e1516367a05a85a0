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
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/schemagen/typeinfo"
)

var (
	noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

	// configValidator checks configuration structs. It is safe for concurrent use.
	configValidator = validator.New(validator.WithRequiredStructEnabled())
)

// Generator holds generation settings.
// All fields are public for functional options, but direct modification
// after creation is not recommended.
//
// Create instances using [New] or [MustNew].
type Generator struct {
	// Logger receives debug records per operation and warnings for
	// degraded operations. Default: discard.
	Logger *slog.Logger

	// Concurrency is the number of operations built in parallel.
	// Output is identical for every value. Default: 1
	Concurrency int `validate:"gte=1,lte=256"`

	// StrictObjects emits additionalProperties: false on every object.
	// Default: false
	StrictObjects bool

	// DefaultContentType is the content type of structured bodies and
	// responses. Default: "application/json"
	DefaultContentType string `validate:"required,contains=/"`

	types *typeinfo.Introspector
}

// Option configures a [Generator] using the functional options pattern.
type Option func(*Generator)

// New creates a [Generator] with the given options.
//
// It applies default values and validates the configuration.
//
// Example:
//
//	gen, err := schemagen.New(
//	    schemagen.WithConcurrency(4),
//	    schemagen.WithLogger(slog.Default()),
//	)
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		Logger:             noopLogger,
		Concurrency:        1,
		DefaultContentType: "application/json",
		types:              typeinfo.NewIntrospector(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// MustNew creates a [Generator] and panics if validation fails.
func MustNew(opts ...Option) *Generator {
	g, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return g
}

// Validate checks the configuration. It is called by [New] and [MustNew].
func (g *Generator) Validate() error {
	if g.Logger == nil {
		return fmt.Errorf("%w: logger must not be nil", ErrInvalidConfig)
	}
	if err := configValidator.Struct(g); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// WithLogger sets the logger. Records carry a per-build "build_id".
//
// Example:
//
//	schemagen.WithLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.Logger = l
	}
}

// WithConcurrency sets the number of operations built in parallel.
// The document does not depend on this value.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		g.Concurrency = n
	}
}

// WithStrictObjects makes every object schema reject unknown members.
func WithStrictObjects(strict bool) Option {
	return func(g *Generator) {
		g.StrictObjects = strict
	}
}

// WithDefaultContentType sets the content type of structured bodies and
// responses.
//
// Example:
//
//	schemagen.WithDefaultContentType("application/vnd.api+json")
func WithDefaultContentType(ct string) Option {
	return func(g *Generator) {
		g.DefaultContentType = ct
	}
}
