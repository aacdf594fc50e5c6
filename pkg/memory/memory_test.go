package memory

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/supportbuddyx/supportbuddy/pkg/docstore/inmemory"
	"github.com/supportbuddyx/supportbuddy/pkg/llm"
)

var _ = Describe("Store", func() {
	var (
		store *Store
		ctx   context.Context
	)

	BeforeEach(func() {
		store = NewStore(inmemory.NewDriver())
		ctx = context.Background()
	})

	It("returns an empty history for a user with no saved memory", func() {
		history, err := store.Load(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(history.Turns).To(BeEmpty())
	})

	It("round-trips a history", func() {
		history := &History{}
		history.Append(llm.RoleUser, "how do I export my data?")
		history.Append(llm.RoleAssistant, "use the export button")

		Expect(store.Save(ctx, "alice", history)).To(Succeed())

		loaded, err := store.Load(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Turns).To(Equal(history.Turns))
	})

	It("keeps histories isolated per user", func() {
		alice := &History{}
		alice.Append(llm.RoleUser, "alice's question")
		Expect(store.Save(ctx, "alice", alice)).To(Succeed())

		bob, err := store.Load(ctx, "bob")
		Expect(err).NotTo(HaveOccurred())
		Expect(bob.Turns).To(BeEmpty())
	})

	It("deletes a saved history", func() {
		history := &History{}
		history.Append(llm.RoleUser, "hello")
		Expect(store.Save(ctx, "alice", history)).To(Succeed())

		Expect(store.Delete(ctx, "alice")).To(Succeed())

		loaded, err := store.Load(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Turns).To(BeEmpty())
	})
})

var _ = Describe("History", func() {
	It("converts turns to completion messages in order", func() {
		history := &History{}
		history.Append(llm.RoleUser, "q1")
		history.Append(llm.RoleAssistant, "a1")

		msgs := history.Messages()
		Expect(msgs).To(Equal([]llm.Message{
			{Role: llm.RoleUser, Content: "q1"},
			{Role: llm.RoleAssistant, Content: "a1"},
		}))
	})
})
