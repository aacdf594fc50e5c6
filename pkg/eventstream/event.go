// Package eventstream defines transport-neutral events emitted after a
// question/answer exchange is persisted, plus the Publisher interface that
// backends implement.
package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeExchangePersisted is emitted after an exchange's memory
	// update is persisted.
	EventTypeExchangePersisted = "supportbuddy.exchange.persisted"
)

// ExchangePersistedEvent is the payload for a persisted question/answer
// exchange.
type ExchangePersistedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	UserID   string   `json:"user_id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}
