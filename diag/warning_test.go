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

package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarningCode_Category(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code WarningCode
		want WarningCategory
	}{
		{WarnUnsupportedType, CategoryDegraded},
		{WarnOperationDegraded, CategoryDegraded},
		{WarnConstraintIgnored, CategoryConstraint},
		{WarnNameCollision, CategoryNaming},
		{WarnDownlevelTypeUnion, CategoryDownlevel},
		{WarningCode("SOMETHING_ELSE"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.code.Category())
		})
	}
}

func TestWarnings_Helpers(t *testing.T) {
	t.Parallel()

	ws := Warnings{
		NewWarning(WarnNameCollision, "#/components/schemas/User2", "renamed"),
		NewWarning(WarnConstraintIgnored, "#/components/schemas/Todo/properties/id", "length on integer"),
		NewWarning(WarnNameCollision, "#/components/schemas/User3", "renamed"),
	}

	assert.True(t, ws.Has(WarnNameCollision))
	assert.False(t, ws.Has(WarnUnsupportedType))
	assert.True(t, ws.HasCategory(CategoryConstraint))
	assert.False(t, ws.HasCategory(CategoryDegraded))
	assert.Len(t, ws.Filter(WarnNameCollision), 2)
	assert.Nil(t, ws.Filter())
	assert.Len(t, ws.FilterCategory(CategoryConstraint), 1)
	assert.Equal(t, []WarningCode{WarnNameCollision, WarnConstraintIgnored}, ws.Codes())
	assert.Contains(t, ws.String(), "3 warning(s)")
	assert.Equal(t, "no warnings", Warnings(nil).String())
}

func TestWarning_String(t *testing.T) {
	t.Parallel()

	w := NewWarning(WarnUnsupportedType, "#/x", "chan int")
	assert.Equal(t, "[degraded] DEGRADED_UNSUPPORTED_TYPE at #/x: chan int", w.String())
	assert.Equal(t, "#/x", w.Path())
	assert.Equal(t, "chan int", w.Message())

	w = NewWarning(WarnOperationDegraded, "", "boom")
	assert.Equal(t, "[degraded] DEGRADED_OPERATION: boom", w.String())
}
