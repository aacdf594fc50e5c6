package inmemory

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore"
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

	Describe("users", func() {
		It("inserts a user once", func() {
			inserted, err := driver.AddUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeTrue())

			inserted, err = driver.AddUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeFalse())

			exists, err := driver.HasUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("deletes a user along with their memory", func() {
			_, err := driver.AddUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.SaveMemory(ctx, "alice", []byte("blob"))).To(Succeed())

			deleted, err := driver.DeleteUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())

			exists, err := driver.HasUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())

			_, err = driver.LoadMemory(ctx, "alice")
			Expect(err).To(MatchError(docstore.ErrNoMemory))
		})

		It("reports false when deleting an unknown user", func() {
			deleted, err := driver.DeleteUser(ctx, "ghost")
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeFalse())
		})
	})

	Describe("ingested sources", func() {
		It("marks a source once per collection", func() {
			inserted, err := driver.MarkIngested(ctx, docstore.CollectionURLs, "http://example.com/a")
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeTrue())

			inserted, err = driver.MarkIngested(ctx, docstore.CollectionURLs, "http://example.com/a")
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeFalse())

			// Same key in a different collection is independent
			inserted, err = driver.MarkIngested(ctx, docstore.CollectionSitemaps, "http://example.com/a")
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeTrue())
		})

		It("unmarks a source so it can be marked again", func() {
			_, err := driver.MarkIngested(ctx, docstore.CollectionURLs, "http://example.com/a")
			Expect(err).NotTo(HaveOccurred())

			Expect(driver.Unmark(ctx, docstore.CollectionURLs, "http://example.com/a")).To(Succeed())

			inserted, err := driver.MarkIngested(ctx, docstore.CollectionURLs, "http://example.com/a")
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeTrue())
		})
	})

	Describe("memory blobs", func() {
		It("round-trips a blob", func() {
			Expect(driver.SaveMemory(ctx, "alice", []byte(`{"turns":[]}`))).To(Succeed())

			blob, err := driver.LoadMemory(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(blob).To(Equal([]byte(`{"turns":[]}`)))
		})

		It("returns ErrNoMemory for an unknown user", func() {
			_, err := driver.LoadMemory(ctx, "ghost")
			Expect(err).To(MatchError(docstore.ErrNoMemory))
		})

		It("copies blobs so callers cannot mutate stored state", func() {
			blob := []byte("original")
			Expect(driver.SaveMemory(ctx, "alice", blob)).To(Succeed())
			blob[0] = 'X'

			loaded, err := driver.LoadMemory(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(loaded)).To(Equal("original"))
		})
	})
})
