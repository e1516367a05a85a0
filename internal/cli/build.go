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

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rivaas.dev/schemagen"
	"rivaas.dev/schemagen/export"
	"rivaas.dev/schemagen/internal/manifest"
)

type buildOptions struct {
	manifest string
	config   string
	out      string
	format   string
	oas      string
	validate bool
}

func newBuildCmd() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an OpenAPI document from a manifest",
		Example: `  # Print an OpenAPI 3.1 document as JSON
  schemagen build --manifest api.yaml

  # Write a validated OpenAPI 3.0 document as YAML
  schemagen build --manifest api.toml --oas 3.0 --format yaml --validate --out openapi.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "Manifest file (.yaml, .toml or .json)")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "Configuration file (.yaml, .toml or .json)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format (json, yaml)")
	cmd.Flags().StringVar(&opts.oas, "oas", "", "OpenAPI version (3.0, 3.1)")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "Validate the generated document")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	cfg := schemagen.DefaultFileConfig()
	if opts.config != "" {
		loaded, err := schemagen.LoadConfig(opts.config)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Export.Format = opts.format
	}
	if flags.Changed("oas") {
		cfg.Export.Version = opts.oas
	}
	if flags.Changed("validate") {
		cfg.Export.Validate = opts.validate
	}
	if cfg.Export.Format != "json" && cfg.Export.Format != "yaml" {
		return fmt.Errorf("unsupported format %q (json, yaml)", cfg.Export.Format)
	}
	version, err := export.ParseVersion(cfg.Export.Version)
	if err != nil {
		return err
	}

	mf, err := manifest.Load(opts.manifest)
	if err != nil {
		return err
	}
	ops, err := mf.Resolve()
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	gen, err := schemagen.New(cfg.Options(stderr)...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := gen.Generate(ctx, ops...)
	if err != nil {
		return err
	}

	out, err := export.Project(ctx, res.Document, export.Config{
		Version:    version,
		Title:      cfg.Export.Title,
		APIVersion: cfg.Export.APIVersion,
		Validate:   cfg.Export.Validate,
	})
	if err != nil {
		return err
	}

	for _, w := range append(res.Warnings, out.Warnings...) {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	data := out.JSON
	if cfg.Export.Format == "yaml" {
		data = out.YAML
	}

	if opts.out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(stderr, "wrote %s (%d operations, %d components)\n",
		opts.out, len(res.Document.Operations), res.Document.Components.Len())

	return nil
}
