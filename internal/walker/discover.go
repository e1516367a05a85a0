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

package walker

import (
	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/internal/registry"
	"rivaas.dev/schemagen/model"
	"rivaas.dev/schemagen/typeinfo"
)

// Discover reserves component names for every named object reachable from
// t, in depth-first declaration order. Running it over all operations
// before any parallel build makes component names independent of
// scheduling.
func Discover(reg *registry.Registry, t *typeinfo.Type) diag.Warnings {
	d := discoverer{reg: reg, seen: make(map[*typeinfo.Type]bool)}
	d.visit(t)

	return d.warnings
}

type discoverer struct {
	reg      *registry.Registry
	seen     map[*typeinfo.Type]bool
	warnings diag.Warnings
}

func (d *discoverer) visit(t *typeinfo.Type) {
	if t == nil || d.seen[t] {
		return
	}
	d.seen[t] = true

	switch t.Kind {
	case typeinfo.KindArray, typeinfo.KindMap:
		d.visit(t.Elem)
	case typeinfo.KindObject:
		if t.Name != "" {
			if name, renamed := d.reg.Reserve(t.ID, t.Name); renamed {
				d.warnings = append(d.warnings, collision(t, name))
			}
		}
		for _, p := range t.Properties {
			if !p.Ignored {
				d.visit(p.Type)
			}
		}
	}
}

func collision(t *typeinfo.Type, name string) diag.Warning {
	return diag.NewWarning(diag.WarnNameCollision, model.ComponentPrefix+name,
		"type "+string(t.ID)+" renamed to "+name+": "+t.Name+" is held by another type")
}
