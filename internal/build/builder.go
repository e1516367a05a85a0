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

// Package build assembles the schema document of a set of operations.
package build

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/internal/negotiate"
	"rivaas.dev/schemagen/internal/registry"
	"rivaas.dev/schemagen/internal/walker"
	"rivaas.dev/schemagen/model"
	"rivaas.dev/schemagen/typeinfo"
)

var (
	// ErrNoOperations is returned when Build is called without operations.
	ErrNoOperations = errors.New("schemagen: at least one operation is required")

	// ErrDuplicateOperationID is returned when two operations share an identifier.
	ErrDuplicateOperationID = errors.New("schemagen: duplicate operation ID")
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Config configures a Builder.
type Config struct {
	Logger *slog.Logger

	// Concurrency is the number of operations built in parallel.
	// Values below 2 build sequentially.
	Concurrency int

	StrictObjects   bool
	JSONContentType string
}

// Builder assembles documents. It is safe for concurrent use; every Build
// call has its own registry.
type Builder struct {
	cfg Config
	neg *negotiate.Negotiator
	log *slog.Logger

	// beforeOperation is called at the start of every operation build.
	beforeOperation func(Operation)
}

// NewBuilder creates a builder.
func NewBuilder(cfg Config) *Builder {
	log := cfg.Logger
	if log == nil {
		log = noopLogger
	}

	return &Builder{
		cfg: cfg,
		neg: negotiate.New(cfg.JSONContentType),
		log: log,
	}
}

type built struct {
	op       *model.Operation
	warnings diag.Warnings
}

// Build assembles the document of ops. Operations keep their input order;
// components are shared by all operations and sorted by name.
//
// Problems confined to one operation never fail the build: they degrade
// that operation and are reported as warnings. Warnings are ordered as
// name discovery, then components by name, then operations in input order.
// The context is checked between operations.
func (b *Builder) Build(ctx context.Context, ops []Operation) (*model.Document, diag.Warnings, error) {
	if len(ops) == 0 {
		return nil, nil, ErrNoOperations
	}

	ids, err := assignIDs(ops)
	if err != nil {
		return nil, nil, err
	}

	log := b.log.With("build_id", uuid.NewString())
	log.DebugContext(ctx, "schema build started", "operations", len(ops), "concurrency", b.cfg.Concurrency)

	reg := registry.New()

	// Names are reserved in operation order before any walk, so parallel
	// builds assign the same names as sequential ones.
	var warnings diag.Warnings
	for _, op := range ops {
		for _, p := range op.Params {
			warnings = append(warnings, walker.Discover(reg, p.Type)...)
		}
		for _, r := range op.Responses {
			warnings = append(warnings, walker.Discover(reg, r.Type)...)
		}
	}

	results := make([]built, len(ops))
	buildOne := func(i int) {
		results[i] = b.buildOperation(ctx, log, reg, ids[i], ops[i])
	}

	if b.cfg.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.cfg.Concurrency)
		for i := range ops {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				buildOne(i)

				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for i := range ops {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			buildOne(i)
		}
	}

	doc := &model.Document{
		Operations: make([]*model.Operation, 0, len(ops)),
		Components: reg.Components(),
	}
	warnings = append(warnings, reg.Warnings()...)
	for _, r := range results {
		doc.Operations = append(doc.Operations, r.op)
		warnings = append(warnings, r.warnings...)
	}

	log.DebugContext(ctx, "schema build finished", "components", doc.Components.Len(), "warnings", len(warnings))

	return doc, warnings, nil
}

// assignIDs returns the operation identifiers, generating missing ones.
func assignIDs(ops []Operation) ([]string, error) {
	ids := make([]string, len(ops))
	seen := make(map[string]int, len(ops))

	for i, op := range ops {
		id := op.ID
		if id == "" {
			id = generateOperationID(op.Method, op.Path)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s (used by %s %s and %s %s)",
				ErrDuplicateOperationID, id, ops[prev].Method, ops[prev].Path, op.Method, op.Path)
		}
		seen[id] = i
		ids[i] = id
	}

	return ids, nil
}

func (b *Builder) buildOperation(ctx context.Context, log *slog.Logger, reg *registry.Registry, id string, op Operation) (res built) {
	w := walker.New(reg, walker.WithStrictObjects(b.cfg.StrictObjects))
	base := "#/paths/" + pointer(ConvertPath(op.Path)) + "/" + strings.ToLower(op.Method)

	out := &model.Operation{
		ID:          id,
		Method:      strings.ToUpper(op.Method),
		Path:        op.Path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  op.Deprecated,
	}
	res.op = out

	var degraded diag.Warnings
	defer func() {
		if r := recover(); r != nil {
			log.WarnContext(ctx, "operation degraded", "operation", id, "panic", r)
			out.RequestBody = nil
			res.warnings = append(slices.Clone(w.Warnings()), degraded...)
			res.warnings = append(res.warnings, diag.NewWarning(diag.WarnOperationDegraded, base,
				fmt.Sprintf("schema build failed: %v", r)))
		}
	}()

	log.DebugContext(ctx, "building operation", "operation", id, "method", out.Method, "path", op.Path)
	if b.beforeOperation != nil {
		b.beforeOperation(op)
	}

	params := withPathParams(op.Path, op.Params)
	out.Parameters = b.neg.Parameters(w, base, params)

	body, err := b.neg.RequestBody(w, base, params)
	if err != nil {
		log.WarnContext(ctx, "request body degraded", "operation", id, "error", err)
		degraded = append(degraded, diag.NewWarning(diag.WarnOperationDegraded, base+"/requestBody", err.Error()))
	}
	out.RequestBody = body

	out.Responses = b.responses(w, base, op.Responses)
	res.warnings = append(slices.Clone(w.Warnings()), degraded...)

	return res
}

// withPathParams appends a string path parameter for every path segment
// no declared parameter binds.
func withPathParams(path string, params []negotiate.Parameter) []negotiate.Parameter {
	declared := make(map[string]bool)
	for _, p := range params {
		if p.Source == negotiate.SourcePath {
			declared[p.Name] = true
		}
	}

	out := params
	for _, name := range pathParamNames(path) {
		if declared[name] {
			continue
		}
		if len(out) == len(params) {
			out = slices.Clone(params)
		}
		out = append(out, negotiate.Parameter{
			Name:   name,
			Source: negotiate.SourcePath,
			Type:   typeinfo.ScalarType(typeinfo.ScalarString),
		})
	}

	return out
}

func (b *Builder) responses(w *walker.Walker, base string, decl []Response) []model.Response {
	if len(decl) == 0 {
		return []model.Response{{Status: http.StatusOK, Description: httpStatusText(http.StatusOK)}}
	}

	sorted := slices.Clone(decl)
	slices.SortStableFunc(sorted, func(x, y Response) int { return cmp.Compare(x.Status, y.Status) })

	out := make([]model.Response, 0, len(sorted))
	for _, r := range sorted {
		if len(out) > 0 && out[len(out)-1].Status == r.Status {
			continue
		}

		resp := model.Response{
			Status:      r.Status,
			Description: cmp.Or(r.Description, httpStatusText(r.Status)),
		}

		if r.Type != nil && r.Status != http.StatusNoContent {
			path := base + "/responses/" + strconv.Itoa(r.Status)
			if r.Type.Kind == typeinfo.KindStream {
				resp.Content = map[string]*model.Schema{
					negotiate.ContentOctetStream: w.BuildAt(path, r.Type, false),
				}
			} else {
				ct := cmp.Or(r.ContentType, b.cfg.JSONContentType, negotiate.ContentJSON)
				resp.Content = map[string]*model.Schema{ct: w.BuildAt(path, r.Type, r.Nullable)}
			}
		}

		out = append(out, resp)
	}

	return out
}
