package worker

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/supportbuddyx/supportbuddy/pkg/eventstream"
	sblogger "github.com/supportbuddyx/supportbuddy/pkg/logger"
	testutils "github.com/supportbuddyx/supportbuddy/pkg/utils/test"
)

var errPublish = errors.New("broker unreachable")

// newTestPool creates a worker pool backed by a recording publisher.
// Callers should "wp.Close()" to drain enqueued jobs before asserting
// published events.
func newTestPool() (*Pool, *testutils.MockPublisher) {
	publisher := testutils.NewMockPublisher()

	wp, err := NewPool(&Config{
		Publisher: publisher,
		Logger:    sblogger.Nop(),
	})
	Expect(err).NotTo(HaveOccurred())

	return wp, publisher
}

var _ = Describe("Worker Pool", func() {
	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			wp, _ := newTestPool()

			ok := wp.Enqueue(Job{
				UserID:   "alice",
				Question: "how do I reset my password?",
				Answer:   "use the reset link",
				Sources:  []string{"http://example.com/help"},
			})
			Expect(ok).To(BeTrue())
			wp.Close()
		})

		It("drops jobs when the queue is full", func() {
			publisher := testutils.NewMockPublisher()

			// Zero workers never start, so nothing drains the queue
			wp := &Pool{
				config: &Config{Publisher: publisher},
				queue:  make(chan Job, 1),
				logger: sblogger.Nop(),
			}

			Expect(wp.Enqueue(Job{UserID: "alice"})).To(BeTrue())
			Expect(wp.Enqueue(Job{UserID: "bob"})).To(BeFalse())
		})
	})

	Describe("event publishing", func() {
		It("publishes one event per enqueued job", func() {
			wp, publisher := newTestPool()

			Expect(wp.Enqueue(Job{
				UserID:   "alice",
				Question: "how do I reset my password?",
				Answer:   "use the reset link",
				Sources:  []string{"http://example.com/help"},
			})).To(BeTrue())
			Expect(wp.Enqueue(Job{
				UserID:   "bob",
				Question: "where are invoices?",
				Answer:   "billing page",
			})).To(BeTrue())

			wp.Close()

			events := publisher.Events()
			Expect(events).To(HaveLen(2))
		})

		It("stamps events with identity and schema fields", func() {
			wp, publisher := newTestPool()

			Expect(wp.Enqueue(Job{
				UserID:   "alice",
				Question: "how do I reset my password?",
				Answer:   "use the reset link",
				Sources:  []string{"http://example.com/help"},
			})).To(BeTrue())

			wp.Close()

			events := publisher.Events()
			Expect(events).To(HaveLen(1))

			event := events[0]
			Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
			Expect(event.EventType).To(Equal(eventstream.EventTypeExchangePersisted))
			Expect(event.EventID).NotTo(BeEmpty())
			Expect(event.EmittedAt).NotTo(BeZero())
			Expect(event.UserID).To(Equal("alice"))
			Expect(event.Question).To(Equal("how do I reset my password?"))
			Expect(event.Answer).To(Equal("use the reset link"))
			Expect(event.Sources).To(Equal([]string{"http://example.com/help"}))
		})

		It("keeps draining after a publish failure", func() {
			wp, publisher := newTestPool()
			publisher.Err = errPublish

			Expect(wp.Enqueue(Job{UserID: "alice"})).To(BeTrue())
			Expect(wp.Enqueue(Job{UserID: "bob"})).To(BeTrue())

			wp.Close()
			Expect(publisher.Events()).To(BeEmpty())
		})
	})
})
