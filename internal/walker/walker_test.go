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

package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/internal/registry"
	"rivaas.dev/schemagen/model"
	"rivaas.dev/schemagen/typeinfo"
)

func scalar(s typeinfo.Scalar) *typeinfo.Type { return typeinfo.ScalarType(s) }

func todoType() *typeinfo.Type {
	return typeinfo.ObjectType("app.Todo", "Todo",
		typeinfo.Property{Name: "id", Type: scalar(typeinfo.ScalarInt)},
		typeinfo.Property{Name: "title", Type: scalar(typeinfo.ScalarString), Nullable: true},
		typeinfo.Property{Name: "completed", Type: scalar(typeinfo.ScalarBool)},
		typeinfo.Property{Name: "createdAt", Type: scalar(typeinfo.ScalarDateTime)},
	)
}

// component resolves ref against reg and fails when it is missing.
func component(tb testing.TB, reg *registry.Registry, ref *model.Schema) *model.Schema {
	tb.Helper()

	require.True(tb, ref.IsRef(), "expected a reference node")
	s, ok := reg.Components().Lookup(ref.RefName())
	require.True(tb, ok, "component %s not registered", ref.RefName())

	return s
}

func TestWalker_Todo(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	w := New(reg)

	ref := w.Build(todoType(), false)
	assert.Equal(t, "#/components/schemas/Todo", ref.Ref)

	s := component(t, reg, ref)
	assert.Equal(t, model.TypeObject, s.Type)
	assert.Equal(t, []string{"id", "title", "completed", "createdAt"}, s.Properties.Keys())

	id, _ := s.Properties.Get("id")
	assert.Equal(t, model.TypeInteger, id.Type)
	assert.Empty(t, id.Format)

	title, _ := s.Properties.Get("title")
	assert.Equal(t, model.TypeString|model.TypeNull, title.Type)

	completed, _ := s.Properties.Get("completed")
	assert.Equal(t, model.TypeBoolean, completed.Type)

	created, _ := s.Properties.Get("createdAt")
	assert.Equal(t, model.TypeString, created.Type)
	assert.Equal(t, "date-time", created.Format)

	assert.Nil(t, s.Additional)
	assert.Empty(t, s.Required)
	assert.Empty(t, w.Warnings())
}

func TestWalker_ScalarTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scalar typeinfo.Scalar
		typ    model.TypeFlags
		format string
	}{
		{typeinfo.ScalarInt32, model.TypeInteger, "int32"},
		{typeinfo.ScalarInt64, model.TypeInteger, "int64"},
		{typeinfo.ScalarFloat, model.TypeNumber, "float"},
		{typeinfo.ScalarDouble, model.TypeNumber, "double"},
		{typeinfo.ScalarUUID, model.TypeString, "uuid"},
		{typeinfo.ScalarDate, model.TypeString, "date"},
		{typeinfo.ScalarURI, model.TypeString, "uri"},
		{typeinfo.ScalarBytes, model.TypeString, "byte"},
	}

	for _, tt := range tests {
		t.Run(tt.scalar.String(), func(t *testing.T) {
			t.Parallel()

			s := New(registry.New()).Build(scalar(tt.scalar), false)
			assert.Equal(t, tt.typ, s.Type)
			assert.Equal(t, tt.format, s.Format)
		})
	}
}

func TestWalker_Bytes(t *testing.T) {
	t.Parallel()

	s := New(registry.New()).Build(scalar(typeinfo.ScalarBytes), true)
	assert.Equal(t, "base64", s.ContentEncoding)
	assert.True(t, s.Type.Nullable())
}

func TestWalker_SelfReference(t *testing.T) {
	t.Parallel()

	n := typeinfo.ObjectType("app.Node", "Node")
	n.Properties = []typeinfo.Property{
		{Name: "value", Type: scalar(typeinfo.ScalarInt)},
		{Name: "children", Type: typeinfo.ArrayOf(n, false)},
		{Name: "parent", Type: n, Nullable: true},
	}

	reg := registry.New()
	ref := New(reg).Build(n, false)

	assert.Equal(t, 1, reg.Components().Len())
	s := component(t, reg, ref)

	children, _ := s.Properties.Get("children")
	assert.Equal(t, model.TypeArray, children.Type)
	assert.Equal(t, ref.Ref, children.Items.Ref)

	parent, _ := s.Properties.Get("parent")
	assert.Equal(t, ref.Ref, parent.Ref)
	assert.True(t, parent.Type.Nullable())
}

func TestWalker_MutualRecursion(t *testing.T) {
	t.Parallel()

	a := typeinfo.ObjectType("app.A", "A")
	b := typeinfo.ObjectType("app.B", "B", typeinfo.Property{Name: "a", Type: a})
	a.Properties = []typeinfo.Property{{Name: "b", Type: b}}

	reg := registry.New()
	New(reg).Build(a, false)

	c := reg.Components()
	assert.Equal(t, []string{"A", "B"}, c.Names())

	bs, _ := c.Lookup("B")
	ap, _ := bs.Properties.Get("a")
	assert.Equal(t, "#/components/schemas/A", ap.Ref)
}

func TestWalker_StructuralSharing(t *testing.T) {
	t.Parallel()

	item := typeinfo.ObjectType("app.Item", "Item", typeinfo.Property{Name: "sku", Type: scalar(typeinfo.ScalarString)})
	first := typeinfo.ObjectType("app.Cart", "Cart",
		typeinfo.Property{Name: "items", Type: typeinfo.ArrayOf(item, false)},
		typeinfo.Property{Name: "featured", Type: item},
	)
	fixed := &typeinfo.Type{ID: "[3]app.Item", Kind: typeinfo.KindArray, Elem: item}
	second := typeinfo.ObjectType("app.Wishlist", "Wishlist",
		typeinfo.Property{Name: "top", Type: fixed},
		typeinfo.Property{Name: "byName", Type: typeinfo.MapOf(item, false)},
	)

	reg := registry.New()
	w := New(reg)
	c1 := component(t, reg, w.Build(first, false))
	c2 := component(t, reg, w.Build(second, false))

	items, _ := c1.Properties.Get("items")
	featured, _ := c1.Properties.Get("featured")
	top, _ := c2.Properties.Get("top")
	byName, _ := c2.Properties.Get("byName")

	assert.Equal(t, featured.Ref, items.Items.Ref)
	assert.Equal(t, featured.Ref, top.Items.Ref)
	assert.Equal(t, featured.Ref, byName.Additional.Schema.Ref)
	assert.Nil(t, byName.Properties)
	assert.Equal(t, 3, reg.Components().Len())
}

func TestWalker_Enum(t *testing.T) {
	t.Parallel()

	e := typeinfo.EnumType("app.Color", "Color", "red", "green")
	e.EnumDefault = "green"

	w := New(registry.New())
	s := w.Build(e, false)
	assert.Equal(t, model.TypeString, s.Type)
	assert.Equal(t, []any{"red", "green"}, s.Enum)
	assert.Equal(t, "green", s.Default)

	e2 := typeinfo.EnumType("app.Size", "Size", "s", "m")
	e2.EnumDefault = "xl"
	s = w.Build(e2, false)
	assert.Nil(t, s.Default)
	assert.True(t, w.Warnings().Has(diag.WarnEnumDefault))
}

func TestWalker_Stream(t *testing.T) {
	t.Parallel()

	s := New(registry.New()).Build(typeinfo.StreamType(), true)
	assert.Equal(t, model.TypeString, s.Type)
	assert.Equal(t, "binary", s.Format)
}

func TestWalker_Unknown(t *testing.T) {
	t.Parallel()

	w := New(registry.New())
	s := w.BuildAt("#/op/body", &typeinfo.Type{ID: "chan int", Kind: typeinfo.KindUnknown}, false)

	assert.Equal(t, model.TypeObject, s.Type)
	assert.Nil(t, s.Properties)
	require.Len(t, w.Warnings(), 1)
	assert.Equal(t, diag.WarnUnsupportedType, w.Warnings()[0].Code())
	assert.Equal(t, "#/op/body", w.Warnings()[0].Path())

	s = w.Build(nil, true)
	assert.Equal(t, model.TypeObject|model.TypeNull, s.Type)
}

func TestWalker_UnmappedAndStrict(t *testing.T) {
	t.Parallel()

	obj := typeinfo.ObjectType("app.Strict", "Strict", typeinfo.Property{Name: "a", Type: scalar(typeinfo.ScalarString)})
	obj.Unmapped = typeinfo.UnmappedDisallow

	reg := registry.New()
	s := component(t, reg, New(reg).Build(obj, false))
	require.NotNil(t, s.Additional)
	assert.False(t, *s.Additional.Allow)

	loose := typeinfo.ObjectType("app.Loose", "Loose")
	reg = registry.New()
	s = component(t, reg, New(reg, WithStrictObjects(true)).Build(loose, false))
	require.NotNil(t, s.Additional)
	assert.False(t, *s.Additional.Allow)
}

func TestWalker_PropertyConstraints(t *testing.T) {
	t.Parallel()

	min1 := 1.0
	obj := typeinfo.ObjectType("app.Form", "Form",
		typeinfo.Property{
			Name:        "name",
			Type:        scalar(typeinfo.ScalarString),
			Description: "Display name",
			Constraints: []typeinfo.Constraint{typeinfo.Required(), typeinfo.Length(&min1, nil)},
		},
		typeinfo.Property{
			Name:        "page",
			Type:        scalar(typeinfo.ScalarInt),
			Required:    true,
			HasDefault:  true,
			Default:     int64(1),
			Constraints: []typeinfo.Constraint{typeinfo.Length(&min1, nil)},
		},
		typeinfo.Property{Name: "secret", Type: scalar(typeinfo.ScalarString), Ignored: true},
	)

	reg := registry.New()
	w := New(reg)
	s := component(t, reg, w.Build(obj, false))
	assert.Empty(t, w.Warnings())

	assert.Equal(t, []string{"name", "page"}, s.Properties.Keys())
	assert.Equal(t, []string{"name"}, s.Required)

	name, _ := s.Properties.Get("name")
	assert.Equal(t, "Display name", name.Description)
	assert.Equal(t, 1, *name.MinLength)

	page, _ := s.Properties.Get("page")
	assert.Equal(t, int64(1), page.Default)
	assert.Nil(t, page.MinLength)

	ws := reg.Warnings().Filter(diag.WarnConstraintIgnored)
	require.Len(t, ws, 1)
	assert.Equal(t, "#/components/schemas/Form/properties/page", ws[0].Path())
}

func TestWalker_InlineRecursion(t *testing.T) {
	t.Parallel()

	tree := &typeinfo.Type{ID: "app.Tree", Kind: typeinfo.KindArray}
	tree.Elem = tree

	w := New(registry.New())
	s := w.Build(tree, false)

	assert.Equal(t, model.TypeArray, s.Type)
	assert.Equal(t, &model.Schema{}, s.Items)
	assert.True(t, w.Warnings().Has(diag.WarnRecursiveInline))
}

func TestWalker_AnonymousObjectInlined(t *testing.T) {
	t.Parallel()

	anon := typeinfo.ObjectType("struct { X int }", "", typeinfo.Property{Name: "X", Type: scalar(typeinfo.ScalarInt)})

	reg := registry.New()
	s := New(reg).Build(anon, true)

	assert.False(t, s.IsRef())
	assert.Equal(t, model.TypeObject|model.TypeNull, s.Type)
	assert.Equal(t, 0, reg.Components().Len())
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	userA := typeinfo.ObjectType("a.User", "User")
	userB := typeinfo.ObjectType("b.User", "User")
	root := typeinfo.ObjectType("app.Pair", "Pair",
		typeinfo.Property{Name: "left", Type: userA},
		typeinfo.Property{Name: "right", Type: typeinfo.ArrayOf(userB, false)},
		typeinfo.Property{Name: "hidden", Type: typeinfo.ObjectType("c.Hidden", "Hidden"), Ignored: true},
	)

	reg := registry.New()
	ws := Discover(reg, root)

	require.Len(t, ws, 1)
	assert.Equal(t, diag.WarnNameCollision, ws[0].Code())
	assert.Equal(t, 3, reg.Len())

	_, name := reg.State("b.User")
	assert.Equal(t, "User2", name)

	state, _ := reg.State("c.Hidden")
	assert.Equal(t, registry.Miss, state)

	// Building after discovery keeps the reserved names.
	w := New(reg)
	ref := w.Build(root, false)
	assert.Equal(t, "#/components/schemas/Pair", ref.Ref)
	assert.Empty(t, w.Warnings())
	assert.Equal(t, []string{"Pair", "User", "User2"}, reg.Components().Names())
}
