package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/supportbuddyx/supportbuddy/pkg/chat"
	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
	"github.com/supportbuddyx/supportbuddy/pkg/docstore/inmemory"
	"github.com/supportbuddyx/supportbuddy/pkg/ingest"
	sblogger "github.com/supportbuddyx/supportbuddy/pkg/logger"
	"github.com/supportbuddyx/supportbuddy/pkg/memory"
	"github.com/supportbuddyx/supportbuddy/pkg/retrieval"
	testutils "github.com/supportbuddyx/supportbuddy/pkg/utils/test"
	"github.com/supportbuddyx/supportbuddy/pkg/vector"
	"github.com/supportbuddyx/supportbuddy/pkg/worker"
)

func postJSON(app *fiber.App, path string, payload any) *http.Response {
	body, err := json.Marshal(payload)
	Expect(err).NotTo(HaveOccurred())

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	Expect(err).NotTo(HaveOccurred())
	return resp
}

func readBody(resp *http.Response) string {
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return string(body)
}

var _ = Describe("Gateway handlers", func() {
	var (
		server    *Server
		docs      *inmemory.Driver
		embedder  *testutils.MockEmbedder
		vectors   *testutils.MockVectorDriver
		completer *testutils.MockCompleter
		fetcher   *testutils.MockFetcher
		publisher *testutils.MockPublisher
		pool      *worker.Pool
		memories  *memory.Store
		ctx       context.Context
	)

	BeforeEach(func() {
		logger := sblogger.Nop()
		docs = inmemory.NewDriver()
		embedder = testutils.NewMockEmbedder()
		vectors = testutils.NewMockVectorDriver()
		completer = testutils.NewMockCompleter("the answer")
		fetcher = testutils.NewMockFetcher()
		publisher = testutils.NewMockPublisher()
		ctx = context.Background()

		retriever := retrieval.New(embedder, vectors, 4, logger)
		memories = memory.NewStore(docs)
		registry := chat.NewRegistry(docs, memories, retriever, completer, logger)
		workflow := ingest.NewWorkflow(docs, retriever, fetcher, logger)

		var err error
		pool, err = worker.NewPool(&worker.Config{
			Publisher: publisher,
			Logger:    logger,
		})
		Expect(err).NotTo(HaveOccurred())

		server = NewServer(Config{ListenAddr: ":0"}, registry, workflow, pool, logger)
	})

	Describe("GET /", func() {
		It("reports liveness", func() {
			req, err := http.NewRequest(http.MethodGet, "/", nil)
			Expect(err).NotTo(HaveOccurred())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(resp)).To(ContainSubstring("SupportBuddy is running"))
		})
	})

	Describe("POST /addUrl", func() {
		It("returns 400 when the urls field is missing", func() {
			resp := postJSON(server.app, "/addUrl", map[string]any{})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(readBody(resp)).To(ContainSubstring("Bad request"))
		})

		It("treats an empty urls list as a successful no-op", func() {
			resp := postJSON(server.app, "/addUrl", map[string]any{"urls": []string{}})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(resp)).To(ContainSubstring("URLs handled successfully"))

			Expect(fetcher.FetchedURLs).To(BeEmpty())
			Expect(vectors.Documents).To(BeEmpty())
		})

		It("ingests new urls and records them as processed", func() {
			resp := postJSON(server.app, "/addUrl", map[string]any{
				"urls": []string{"http://example.com/a"},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(resp)).To(ContainSubstring("URLs handled successfully"))

			Expect(fetcher.FetchedURLs).To(HaveLen(1))
			Expect(vectors.Documents).To(HaveLen(1))

			seen, err := docs.HasIngested(ctx, docstore.CollectionURLs, "http://example.com/a")
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(BeTrue())
		})

		It("does not re-fetch an already processed url", func() {
			first := postJSON(server.app, "/addUrl", map[string]any{
				"urls": []string{"http://example.com/a"},
			})
			Expect(first.StatusCode).To(Equal(fiber.StatusOK))

			second := postJSON(server.app, "/addUrl", map[string]any{
				"urls": []string{"http://example.com/a"},
			})
			Expect(second.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(second)).To(ContainSubstring("URLs handled successfully"))

			Expect(fetcher.FetchedURLs).To(HaveLen(1))
			Expect(vectors.Documents).To(HaveLen(1))
		})

		It("returns 500 when fetching fails", func() {
			fetcher.FailOn = "http://example.com/broken"

			resp := postJSON(server.app, "/addUrl", map[string]any{
				"urls": []string{"http://example.com/broken"},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
			Expect(readBody(resp)).To(ContainSubstring("Server error"))
		})

		It("releases the processed record when ingestion fails so a retry can succeed", func() {
			fetcher.FailOn = "http://example.com/flaky"

			resp := postJSON(server.app, "/addUrl", map[string]any{
				"urls": []string{"http://example.com/flaky"},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))

			fetcher.FailOn = ""
			retry := postJSON(server.app, "/addUrl", map[string]any{
				"urls": []string{"http://example.com/flaky"},
			})
			Expect(retry.StatusCode).To(Equal(fiber.StatusOK))
			Expect(vectors.Documents).To(HaveLen(1))
		})
	})

	Describe("POST /addSiteMap", func() {
		It("returns 400 when the sitemap is missing", func() {
			resp := postJSON(server.app, "/addSiteMap", map[string]any{})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("expands and ingests the sitemap", func() {
			fetcher.Sitemaps["http://example.com/sitemap.xml"] = []retrieval.Document{
				{ID: "http://example.com/a", Source: "http://example.com/a", Text: "page a"},
				{ID: "http://example.com/b", Source: "http://example.com/b", Text: "page b"},
			}

			resp := postJSON(server.app, "/addSiteMap", map[string]any{
				"sitemap": "http://example.com/sitemap.xml",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(resp)).To(ContainSubstring("Sitemap handled successfully"))

			Expect(vectors.Documents).To(HaveLen(2))

			seen, err := docs.HasIngested(ctx, docstore.CollectionSitemaps, "http://example.com/sitemap.xml")
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(BeTrue())
		})
	})

	Describe("POST /askQuestion", func() {
		It("returns 400 when user_id is empty", func() {
			resp := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "",
				"message_input": "how do I reset my password?",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(readBody(resp)).To(ContainSubstring("Bad request"))
		})

		It("returns 400 when message_input is missing", func() {
			resp := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id": "alice",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("answers with deduplicated sources", func() {
			vectors.Results = []vector.QueryResult{
				{Document: vector.Document{ID: "1", Source: "http://example.com/a", Text: "a"}, Score: 0.9},
				{Document: vector.Document{ID: "2", Source: "http://example.com/a", Text: "a2"}, Score: 0.8},
				{Document: vector.Document{ID: "3", Source: "http://example.com/b", Text: "b"}, Score: 0.7},
			}

			resp := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "alice",
				"message_input": "how do I reset my password?",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var result chat.Result
			Expect(json.Unmarshal([]byte(readBody(resp)), &result)).To(Succeed())
			Expect(result.Answer).To(Equal("the answer"))
			Expect(result.Sources).To(Equal([]string{"http://example.com/a", "http://example.com/b"}))
		})

		It("creates the user on first question", func() {
			resp := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "bob",
				"message_input": "hello?",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			exists, err := docs.HasUser(ctx, "bob")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("persists the exchange in the user's memory", func() {
			resp := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "alice",
				"message_input": "how do I reset my password?",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			history, err := memories.Load(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(history.Turns).To(HaveLen(2))
			Expect(history.Turns[0].Content).To(Equal("how do I reset my password?"))
			Expect(history.Turns[1].Content).To(Equal("the answer"))
		})

		It("feeds prior memory back to the completion provider", func() {
			first := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "alice",
				"message_input": "first question",
			})
			Expect(first.StatusCode).To(Equal(fiber.StatusOK))

			second := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "alice",
				"message_input": "second question",
			})
			Expect(second.StatusCode).To(Equal(fiber.StatusOK))

			Expect(completer.Requests).To(HaveLen(2))
			Expect(completer.Requests[1].History).To(HaveLen(2))
			Expect(completer.Requests[1].History[0].Content).To(Equal("first question"))
		})

		It("serves a null body when the completion provider fails", func() {
			completer.Err = errors.New("provider unavailable")

			resp := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "alice",
				"message_input": "hello?",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(resp)).To(Equal("null"))
		})

		It("publishes an exchange event after a successful answer", func() {
			resp := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "alice",
				"message_input": "hello?",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			pool.Close()

			events := publisher.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].UserID).To(Equal("alice"))
			Expect(events[0].Question).To(Equal("hello?"))
			Expect(events[0].Answer).To(Equal("the answer"))
			Expect(events[0].EventID).NotTo(BeEmpty())
		})

		It("does not publish an event for an absorbed failure", func() {
			completer.Err = errors.New("provider unavailable")

			resp := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "alice",
				"message_input": "hello?",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			pool.Close()
			Expect(publisher.Events()).To(BeEmpty())
		})
	})

	Describe("POST /deleteUserMemory", func() {
		It("returns 400 when user_id is missing", func() {
			resp := postJSON(server.app, "/deleteUserMemory", map[string]any{})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("deletes the user's record and memory", func() {
			ask := postJSON(server.app, "/askQuestion", map[string]any{
				"user_id":       "alice",
				"message_input": "hello?",
			})
			Expect(ask.StatusCode).To(Equal(fiber.StatusOK))

			resp := postJSON(server.app, "/deleteUserMemory", map[string]any{"user_id": "alice"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(resp)).To(ContainSubstring("User memory deleted successfully"))

			exists, err := docs.HasUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})

		It("still reports success for an unknown user", func() {
			resp := postJSON(server.app, "/deleteUserMemory", map[string]any{"user_id": "ghost"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(readBody(resp)).To(ContainSubstring("User memory deleted successfully"))
		})
	})
})
