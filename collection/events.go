package collection

import (
	"sync"
	"time"

	"github.com/bitfsorg/libmint-go/access"
	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/reveal"
)

// EventKind names a state change.
type EventKind string

const (
	// Role events
	EventOperatorTransferred EventKind = "operator_transferred"
	EventGuardianTransferred EventKind = "guardian_transferred"

	// Phase events
	EventAllowlistToggled  EventKind = "allowlist_toggled"
	EventPublicSaleToggled EventKind = "public_sale_toggled"
	EventFrozen            EventKind = "frozen"

	// Metadata events
	EventBaseURIUpdated      EventKind = "base_uri_updated"
	EventBaseImageURIUpdated EventKind = "base_image_uri_updated"
	EventPreRevealURIUpdated EventKind = "pre_reveal_uri_updated"

	// Parameter events
	EventLimitUpdated        EventKind = "limit_updated"
	EventMaxQuantityUpdated  EventKind = "max_quantity_updated"
	EventPriceUpdated        EventKind = "price_updated"
	EventMinimumIndexUpdated EventKind = "minimum_index_updated"

	// Sale and reveal events
	EventMinted         EventKind = "minted"
	EventFundsWithdrawn EventKind = "funds_withdrawn"
	EventBatchRevealed  EventKind = "batch_revealed"
)

// Event records one successful mutation. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	Actor     access.Address

	Transfer   *access.Transfer     // role events
	Flag       bool                 // toggles
	Number     uint64               // parameter events
	URI        string               // metadata events
	Receipt    *issuance.Receipt    // EventMinted
	Withdrawal *issuance.Withdrawal // EventFundsWithdrawn
	Reveal     *reveal.Reveal       // EventBatchRevealed
}

// EventSink receives events synchronously, in order.
type EventSink interface {
	Publish(e Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(e Event)

// Publish calls f.
func (f SinkFunc) Publish(e Event) { f(e) }

// EventLog keeps every published event in memory.
type EventLog struct {
	mu     sync.Mutex
	events []Event
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog { return &EventLog{} }

// Publish appends e.
func (l *EventLog) Publish(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

// Events returns a copy of all events.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// Kind returns the events of one kind.
func (l *EventLog) Kind(k EventKind) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of events.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
