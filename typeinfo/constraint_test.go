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

package typeinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidateTag(t *testing.T) {
	t.Parallel()

	str := ScalarType(ScalarString)
	num := ScalarType(ScalarInt)
	arr := ArrayOf(str, false)
	dict := MapOf(num, false)

	tests := []struct {
		name string
		tag  string
		typ  *Type
		want []string
	}{
		{"empty", "", str, nil},
		{"string bounds", "required,min=1,max=50", str, []string{"required", "length[1,]", "length[,50]"}},
		{"numeric bounds", "gte=0,lte=100", num, []string{"range[0,]", "range[,100]"}},
		{"exclusive numeric", "gt=0,lt=10", num, []string{"range(0,]", "range[,10)"}},
		{"exclusive length", "gt=0,lt=10", str, []string{"length[1,]", "length[,9]"}},
		{"array len", "len=3", arr, []string{"length[3,3]"}},
		{"map size", "min=1", dict, []string{"size[1,]"}},
		{"explicit length", "minLength=2,maxLength=4", str, []string{"length[2,]", "length[,4]"}},
		{"oneof", "oneof=a b c", str, []string{"oneof=a b c"}},
		{"format", "email", str, []string{"format=email"}},
		{"url format", "url", str, []string{"format=uri"}},
		{"pattern", "alphanum", str, []string{"pattern=^[a-zA-Z0-9]+$"}},
		{"malformed skipped", "min=abc,max=3", str, []string{"length[,3]"}},
		{"unknown skipped", "omitempty,required", str, []string{"required"}},
		{"dive stops", "max=2,dive,min=5", arr, []string{"length[,2]"}},
		{"no substring match", "required_if=Foo bar", str, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseValidateTag(tt.tag, tt.typ)
			var names []string
			for _, c := range got {
				names = append(names, c.String())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestConstraintHelpers(t *testing.T) {
	t.Parallel()

	c := Range(Float(1), nil)
	require.NotNil(t, c.Min)
	assert.InDelta(t, 1.0, *c.Min, 0.0001)
	assert.Nil(t, c.Max)
	assert.Equal(t, ConstraintRange, c.Kind)

	assert.Equal(t, ConstraintSize, Size(nil, Float(3)).Kind)
	assert.Equal(t, "pattern=^a$", Pattern("^a$").String())
	assert.Equal(t, "required", Required().String())
	assert.Equal(t, "ConstraintKind(99)", ConstraintKind(99).String())
}

func TestParseScalar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Scalar
		ok   bool
	}{
		{"boolean", ScalarBool, true},
		{"Integer", ScalarInt, true},
		{"int32", ScalarInt32, true},
		{"number", ScalarDouble, true},
		{"datetime", ScalarDateTime, true},
		{"uuid", ScalarUUID, true},
		{"duration", ScalarDuration, true},
		{"complex", ScalarNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseScalar(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	s := ScalarType(ScalarString)
	assert.Equal(t, Identity("scalar:string"), s.ID)
	assert.Equal(t, Identity("[]scalar:string"), ArrayOf(s, false).ID)
	assert.Equal(t, Identity("map[string]scalar:string"), MapOf(s, true).ID)
	assert.Equal(t, KindStream, StreamType().Kind)

	obj := ObjectType("pkg.User", "User", Property{Name: "id", Type: s})
	assert.Equal(t, KindObject, obj.Kind)
	assert.Len(t, obj.Properties, 1)

	e := EnumType("pkg.Color", "Color", "red", "green")
	assert.Equal(t, []string{"red", "green"}, e.EnumMembers)
	assert.Equal(t, "enum", e.Kind.String())
	assert.True(t, ScalarDouble.Numeric())
	assert.False(t, ScalarString.Numeric())
	assert.True(t, ScalarUUID.Textual())
}
