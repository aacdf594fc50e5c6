package inmemory

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/supportbuddyx/supportbuddy/pkg/vector"
)

var _ = Describe("Driver", func() {
	var (
		driver *Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = NewDriver()
		ctx = context.Background()
	})

	Describe("Query", func() {
		It("ranks documents by cosine similarity", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "x", Source: "x", Embedding: []float32{1, 0}},
				{ID: "y", Source: "y", Embedding: []float32{0, 1}},
				{ID: "diag", Source: "diag", Embedding: []float32{1, 1}},
			})).To(Succeed())

			results, err := driver.Query(ctx, []float32{1, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Document.ID).To(Equal("x"))
			Expect(results[1].Document.ID).To(Equal("diag"))
			Expect(results[2].Document.ID).To(Equal("y"))
		})

		It("truncates to topK", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a", Embedding: []float32{1, 0}},
				{ID: "b", Embedding: []float32{0.9, 0.1}},
				{ID: "c", Embedding: []float32{0, 1}},
			})).To(Succeed())

			results, err := driver.Query(ctx, []float32{1, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("scores mismatched dimensions as zero", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a", Embedding: []float32{1, 0, 0}},
			})).To(Succeed())

			results, err := driver.Query(ctx, []float32{1, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Score).To(BeZero())
		})
	})

	Describe("Add", func() {
		It("replaces a document with the same ID", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a", Text: "old", Embedding: []float32{1, 0}},
			})).To(Succeed())
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a", Text: "new", Embedding: []float32{1, 0}},
			})).To(Succeed())

			results, err := driver.Query(ctx, []float32{1, 0}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Document.Text).To(Equal("new"))
		})
	})

	Describe("Delete", func() {
		It("removes documents by ID", func() {
			Expect(driver.Add(ctx, []vector.Document{
				{ID: "a", Embedding: []float32{1, 0}},
				{ID: "b", Embedding: []float32{0, 1}},
			})).To(Succeed())

			Expect(driver.Delete(ctx, []string{"a"})).To(Succeed())

			results, err := driver.Query(ctx, []float32{1, 0}, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Document.ID).To(Equal("b"))
		})
	})
})
