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

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/schemagen/model"
)

const (
	draft2020     = "https://json-schema.org/draft/2020-12/schema"
	validationURL = "https://rivaas.dev/schemagen/validation.json"
	defsPrefix    = "#/$defs/"
)

// validate31 compiles every component and every body schema of doc as
// JSON Schema 2020-12. Component references are rewritten to $defs so
// that one resource holds the whole schema graph.
func validate31(doc *model.Document) error {
	p := newProjector(V31, defsPrefix)

	var (
		defs object
		keys []string
	)
	add := func(key string, s *model.Schema) {
		defs.set(key, p.schema(s, ""))
		keys = append(keys, key)
	}

	for _, name := range doc.Components.Names() {
		s, _ := doc.Components.Lookup(name)
		add(name, s)
	}
	for _, op := range doc.Operations {
		if rb := op.RequestBody; rb != nil {
			for i, ct := range rb.ContentTypes() {
				add(op.ID+".requestBody."+strconv.Itoa(i), rb.Content[ct])
			}
		}
		for _, r := range op.Responses {
			for i, ct := range r.ContentTypes() {
				add(op.ID+".responses."+strconv.Itoa(r.Status)+"."+strconv.Itoa(i), r.Content[ct])
			}
		}
	}

	data, err := json.Marshal(object{{"$schema", draft2020}, {"$defs", defs}})
	if err != nil {
		return err
	}
	res, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if err = c.AddResource(validationURL, res); err != nil {
		return err
	}
	for _, key := range keys {
		if _, err = c.Compile(validationURL + defsPrefix + escape(key)); err != nil {
			return fmt.Errorf("schema %s: %w", key, err)
		}
	}

	return nil
}

// validate30 loads the projected document with kin-openapi and validates
// it as OpenAPI 3.0.
func validate30(ctx context.Context, specJSON []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(specJSON)
	if err != nil {
		return err
	}

	return doc.Validate(ctx)
}
