package retrieval_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sblogger "github.com/supportbuddyx/supportbuddy/pkg/logger"
	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
	testutils "github.com/supportbuddyx/supportbuddy/pkg/utils/test"
	"github.com/supportbuddyx/supportbuddy/pkg/vector"
)

var _ = Describe("Retriever", func() {
	var (
		retriever *retrieval.Retriever
		embedder  *testutils.MockEmbedder
		driver    *testutils.MockVectorDriver
		ctx       context.Context
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		ctx = context.Background()

		retriever = retrieval.New(embedder, driver, 4, sblogger.Nop())
	})

	Describe("Index", func() {
		It("embeds and stores each document", func() {
			embedder.Embeddings["page a"] = []float32{1, 0}

			err := retriever.Index(ctx, []retrieval.Document{
				{ID: "a", Source: "http://example.com/a", Text: "page a"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(driver.Documents).To(HaveLen(1))
			Expect(driver.Documents[0].ID).To(Equal("a"))
			Expect(driver.Documents[0].Embedding).To(Equal([]float32{1, 0}))
		})

		It("skips documents with no text", func() {
			err := retriever.Index(ctx, []retrieval.Document{
				{ID: "empty", Source: "http://example.com/empty", Text: ""},
				{ID: "a", Source: "http://example.com/a", Text: "page a"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Documents).To(HaveLen(1))
			Expect(driver.Documents[0].ID).To(Equal("a"))
		})

		It("fails when embedding fails", func() {
			embedder.FailOn = "bad page"

			err := retriever.Index(ctx, []retrieval.Document{
				{ID: "bad", Source: "http://example.com/bad", Text: "bad page"},
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Retrieve", func() {
		It("returns the query results as documents", func() {
			driver.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "a", Source: "http://example.com/a", Text: "page a"}, Score: 0.9},
				{Document: vector.Document{ID: "b", Source: "http://example.com/b", Text: "page b"}, Score: 0.5},
			}

			docs, err := retriever.Retrieve(ctx, "a question")
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(Equal([]retrieval.Document{
				{ID: "a", Source: "http://example.com/a", Text: "page a"},
				{ID: "b", Source: "http://example.com/b", Text: "page b"},
			}))
		})

		It("returns no documents for an empty index", func() {
			docs, err := retriever.Retrieve(ctx, "a question")
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(BeEmpty())
		})
	})
})
