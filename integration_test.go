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

//go:build integration

package schemagen_test

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/schemagen"
	"rivaas.dev/schemagen/diag"
	"rivaas.dev/schemagen/export"
	"rivaas.dev/schemagen/model"
)

type Todo struct {
	ID        int       `json:"id"`
	Title     *string   `json:"title" validate:"max=200"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type TreeNode struct {
	Label    string      `json:"label" validate:"required"`
	Parent   *TreeNode   `json:"parent"`
	Children []*TreeNode `json:"children"`
}

type Envelope struct {
	Primary   Todo   `json:"primary"`
	Secondary *Todo  `json:"secondary"`
	History   []Todo `json:"history"`
}

type Priority string

func (Priority) EnumValues() []string { return []string{"low", "high"} }
func (Priority) EnumDefault() string  { return "low" }

type Task struct {
	Name     string   `json:"name" validate:"required,min=1,max=50"`
	Priority Priority `json:"priority"`
	Internal string   `json:"-"`
}

func (Task) DisallowUnknownFields() bool { return true }

var _ = Describe("Schema generation", Label("integration"), func() {
	var (
		gen *schemagen.Generator
		ctx context.Context
	)

	BeforeEach(func() {
		gen = schemagen.MustNew()
		ctx = context.Background()
	})

	Describe("JSON bodies", func() {
		It("describes an optional JSON body in declared property order", func() {
			res, err := gen.Generate(ctx, schemagen.POST("/todos",
				schemagen.WithParams(schemagen.Body("todo", Todo{}))))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Warnings).To(BeEmpty())

			op, ok := res.Document.Operation("createTodo")
			Expect(ok).To(BeTrue())
			Expect(op.RequestBody.Required).To(BeFalse())
			Expect(op.RequestBody.ContentTypes()).To(Equal([]string{"application/json"}))

			todo := res.Document.Components.Resolve(op.RequestBody.Content["application/json"])
			Expect(todo.Properties.Keys()).To(Equal([]string{"id", "title", "completed", "createdAt"}))

			title, _ := todo.Properties.Get("title")
			Expect(title.Type).To(Equal(model.TypeString | model.TypeNull))
			Expect(*title.MaxLength).To(Equal(200))
		})

		It("honors enums, ignored fields and strict objects", func() {
			res, err := gen.Generate(ctx, schemagen.POST("/tasks",
				schemagen.WithParams(schemagen.Body("task", Task{}, schemagen.Required()))))
			Expect(err).NotTo(HaveOccurred())

			task, ok := res.Document.Components.Lookup("Task")
			Expect(ok).To(BeTrue())
			Expect(task.Properties.Keys()).To(Equal([]string{"name", "priority"}))
			Expect(task.Required).To(Equal([]string{"name"}))
			Expect(*task.Additional.Allow).To(BeFalse())

			priority, _ := task.Properties.Get("priority")
			Expect(priority.Enum).To(Equal([]any{"low", "high"}))
			Expect(priority.Default).To(Equal("low"))
		})
	})

	Describe("Form bodies", func() {
		It("wraps each field and strips null", func() {
			res, err := gen.Generate(ctx, schemagen.POST("/signup",
				schemagen.WithOperationID("signup"),
				schemagen.WithParams(
					schemagen.Form("name", (*string)(nil)),
					schemagen.Form("age", (*int)(nil), schemagen.Validate("min=0")),
				)))
			Expect(err).NotTo(HaveOccurred())

			body := res.Document.Operations[0].RequestBody
			Expect(body.Required).To(BeTrue())
			Expect(body.ContentTypes()).To(Equal([]string{"application/x-www-form-urlencoded"}))

			s := body.Content["application/x-www-form-urlencoded"]
			Expect(s.AllOf).To(HaveLen(2))
			name, _ := s.AllOf[0].Properties.Get("name")
			Expect(name.Type).To(Equal(model.TypeString))
			age, _ := s.AllOf[1].Properties.Get("age")
			Expect(age.Type).To(Equal(model.TypeInteger))
			Expect(age.Minimum.Value).To(BeNumerically("==", 0))
		})

		It("adds multipart for file fields", func() {
			res, err := gen.Generate(ctx, schemagen.POST("/upload",
				schemagen.WithParams(
					schemagen.Form("title", ""),
					schemagen.Form("file", (*multipart.FileHeader)(nil)),
				)))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Document.Operations[0].RequestBody.ContentTypes()).To(ContainElement("multipart/form-data"))
		})
	})

	Describe("References", func() {
		It("terminates on cyclic types", func() {
			res, err := gen.Generate(ctx, schemagen.POST("/nodes",
				schemagen.WithParams(schemagen.Body("node", TreeNode{}))))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Document.Components.Names()).To(Equal([]string{"TreeNode"}))

			node, _ := res.Document.Components.Lookup("TreeNode")
			parent, _ := node.Properties.Get("parent")
			Expect(parent.Ref).To(Equal("#/components/schemas/TreeNode"))
			Expect(parent.Type.Nullable()).To(BeTrue())
		})

		It("shares one component per type across operations", func() {
			res, err := gen.Generate(ctx,
				schemagen.POST("/envelopes", schemagen.WithParams(schemagen.Body("e", Envelope{}))),
				schemagen.GET("/todos", schemagen.WithResponse(200, []Todo{})),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Document.Components.Names()).To(Equal([]string{"Envelope", "Todo"}))

			env, _ := res.Document.Components.Lookup("Envelope")
			primary, _ := env.Properties.Get("primary")
			secondary, _ := env.Properties.Get("secondary")
			history, _ := env.Properties.Get("history")
			Expect(primary.Ref).To(Equal(secondary.Ref))
			Expect(history.Items.Ref).To(Equal(primary.Ref))
		})

		It("is deterministic across sequential and parallel builds", func() {
			ops := []schemagen.Operation{
				schemagen.POST("/envelopes", schemagen.WithParams(schemagen.Body("e", Envelope{}))),
				schemagen.POST("/nodes", schemagen.WithParams(schemagen.Body("node", TreeNode{}))),
				schemagen.POST("/tasks", schemagen.WithParams(schemagen.Body("task", Task{}))),
				schemagen.GET("/todos", schemagen.WithResponse(200, []Todo{})),
			}

			first, err := gen.Generate(ctx, ops...)
			Expect(err).NotTo(HaveOccurred())

			for range 5 {
				again, err := schemagen.MustNew(schemagen.WithConcurrency(8)).Generate(ctx, ops...)
				Expect(err).NotTo(HaveOccurred())
				Expect(again.Document).To(Equal(first.Document))
			}
		})
	})

	Describe("Binary and degraded operations", func() {
		It("describes streams as octet-stream", func() {
			res, err := gen.Generate(ctx, schemagen.PUT("/blobs/:id",
				schemagen.WithParams(schemagen.Stream("data"))))
			Expect(err).NotTo(HaveOccurred())

			s := res.Document.Operations[0].RequestBody.Content["application/octet-stream"]
			Expect(s.Format).To(Equal("binary"))
			Expect(res.Document.Operations[0].Parameters).To(HaveLen(1))
		})

		It("isolates a conflicting body to its own operation", func() {
			res, err := gen.Generate(ctx,
				schemagen.POST("/bad", schemagen.WithParams(schemagen.Body("a", Todo{}), schemagen.Stream("b"))),
				schemagen.POST("/good", schemagen.WithParams(schemagen.Body("a", Todo{}))),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Document.Operations[0].RequestBody).To(BeNil())
			Expect(res.Document.Operations[1].RequestBody).NotTo(BeNil())
			Expect(res.Warnings.Has(diag.WarnOperationDegraded)).To(BeTrue())
		})
	})

	Describe("Export", func() {
		It("round-trips through validated OpenAPI 3.0 and 3.1", func() {
			res, err := gen.Generate(ctx,
				schemagen.POST("/todos",
					schemagen.WithParams(schemagen.Body("todo", Todo{}, schemagen.Required())),
					schemagen.WithResponse(201, Todo{})),
				schemagen.GET("/todos/:id", schemagen.WithResponse(200, Todo{})),
				schemagen.POST("/nodes", schemagen.WithParams(schemagen.Body("node", TreeNode{}))),
			)
			Expect(err).NotTo(HaveOccurred())

			for _, v := range []export.Version{export.V30, export.V31} {
				out, err := export.Project(ctx, res.Document, export.Config{Version: v, Title: "Todos", Validate: true})
				Expect(err).NotTo(HaveOccurred(), string(v))

				var doc map[string]any
				Expect(json.Unmarshal(out.JSON, &doc)).To(Succeed())
				Expect(doc["openapi"]).To(Equal(string(v)))
				Expect(doc["paths"]).To(HaveKey("/todos/{id}"))
				Expect(out.YAML).NotTo(BeEmpty())
			}
		})
	})
})
