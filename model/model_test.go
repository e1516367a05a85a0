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

//go:build !integration

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoAdditionalProps(t *testing.T) {
	t.Parallel()

	additional := NoAdditionalProps()

	require.NotNil(t, additional.Allow)
	assert.False(t, *additional.Allow)
	assert.Nil(t, additional.Schema)
}

func TestAdditionalPropsSchema(t *testing.T) {
	t.Parallel()

	schema := &Schema{Type: TypeString}
	additional := AdditionalPropsSchema(schema)

	assert.Nil(t, additional.Allow)
	assert.Same(t, schema, additional.Schema)
}

func TestTypeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flags    TypeFlags
		names    []string
		nullable bool
	}{
		{"string", TypeString, []string{"string"}, false},
		{"nullable string", TypeString | TypeNull, []string{"string", "null"}, true},
		{"integer", TypeInteger, []string{"integer"}, false},
		{"empty", 0, nil, false},
		{"null only", TypeNull, []string{"null"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.names, tt.flags.Names())
			assert.Equal(t, tt.nullable, tt.flags.Nullable())
			assert.False(t, tt.flags.Base().Nullable())
		})
	}
}

func TestTypeFlags_Has(t *testing.T) {
	t.Parallel()

	f := TypeString | TypeNull
	assert.True(t, f.Has(TypeString))
	assert.True(t, f.Has(TypeString|TypeNull))
	assert.False(t, f.Has(TypeInteger))
	assert.False(t, f.Has(0))
	assert.Equal(t, "string|null", f.String())
}

func TestRefTo(t *testing.T) {
	t.Parallel()

	ref := RefTo("Todo")
	assert.True(t, ref.IsRef())
	assert.Equal(t, "#/components/schemas/Todo", ref.Ref)
	assert.Equal(t, "Todo", ref.RefName())

	var nilSchema *Schema
	assert.False(t, nilSchema.IsRef())
	assert.Empty(t, nilSchema.RefName())
}

func TestSchema_Clone(t *testing.T) {
	t.Parallel()

	item := &Schema{Type: TypeString}
	orig := &Schema{
		Type:       TypeObject,
		Properties: NewProperties(),
		Required:   []string{"a"},
		Items:      item,
	}
	orig.Properties.Set("a", item)

	c := orig.Clone()
	c.Required[0] = "b"
	c.Properties.Set("c", &Schema{Type: TypeBoolean})
	c.Type |= TypeNull

	assert.Equal(t, []string{"a"}, orig.Required)
	assert.Equal(t, 1, orig.Properties.Len())
	assert.False(t, orig.Type.Nullable())
	assert.Same(t, item, c.Items)
}

func TestProperties_Order(t *testing.T) {
	t.Parallel()

	p := NewProperties()
	p.Set("zeta", &Schema{Type: TypeString})
	p.Set("alpha", &Schema{Type: TypeInteger})
	p.Set("mid", &Schema{Type: TypeBoolean})
	p.Set("zeta", &Schema{Type: TypeNumber})

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Keys())
	assert.Equal(t, 3, p.Len())

	z, ok := p.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, TypeNumber, z.Type)

	var seen []string
	for k := range p.All() {
		seen = append(seen, k)
		if k == "alpha" {
			break
		}
	}
	assert.Equal(t, []string{"zeta", "alpha"}, seen)
}

func TestProperties_Nil(t *testing.T) {
	t.Parallel()

	var p *Properties
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Keys())
	_, ok := p.Get("x")
	assert.False(t, ok)
	for range p.All() {
		t.Fatal("nil table must not yield")
	}
}

func TestComponents(t *testing.T) {
	t.Parallel()

	c := NewComponents()
	todo := &Schema{Type: TypeObject}
	c.Add("Todo", todo)
	c.Add("Account", &Schema{Type: TypeObject})
	c.Add("Todo", todo)

	assert.Equal(t, []string{"Account", "Todo"}, c.Names())
	assert.Equal(t, 2, c.Len())
	assert.Same(t, todo, c.Resolve(RefTo("Todo")))
	assert.Nil(t, c.Resolve(RefTo("Missing")))

	inline := &Schema{Type: TypeString}
	assert.Same(t, inline, c.Resolve(inline))
}

func TestDocument_Operation(t *testing.T) {
	t.Parallel()

	doc := &Document{Operations: []*Operation{{ID: "a"}, {ID: "b"}}}

	op, ok := doc.Operation("b")
	require.True(t, ok)
	assert.Equal(t, "b", op.ID)

	_, ok = doc.Operation("c")
	assert.False(t, ok)
}

func TestRequestBody_ContentTypes(t *testing.T) {
	t.Parallel()

	rb := &RequestBody{Content: map[string]*Schema{
		"multipart/form-data":               {},
		"application/x-www-form-urlencoded": {},
	}}

	assert.Equal(t, []string{"application/x-www-form-urlencoded", "multipart/form-data"}, rb.ContentTypes())

	var none *RequestBody
	assert.Nil(t, none.ContentTypes())
}
