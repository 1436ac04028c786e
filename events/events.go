package events

import (
	"context"
	"sync"

	"fundpool/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDepositRecorded     EventType = "deposit_recorded"
	EventTypeLoanStateChange     EventType = "loan_state_change"
	EventTypePaymentApplied      EventType = "payment_applied"
	EventTypeSnapshotCreated     EventType = "snapshot_created"
	EventTypeInterestDistributed EventType = "interest_distributed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DepositRecordedEvent represents an accepted member contribution
type DepositRecordedEvent struct {
	MemberID     int64
	DepositID    int64
	Amount       decimal.Decimal
	MemberMonth  int
	RunningTotal decimal.Decimal
}

func (e DepositRecordedEvent) Type() EventType {
	return EventTypeDepositRecorded
}

// LoanStateChangeEvent represents a loan lifecycle transition
type LoanStateChangeEvent struct {
	LoanID    int64
	MemberID  int64
	OldStatus models.LoanStatus
	NewStatus models.LoanStatus
}

func (e LoanStateChangeEvent) Type() EventType {
	return EventTypeLoanStateChange
}

// PaymentAppliedEvent represents a payment applied to a loan
type PaymentAppliedEvent struct {
	LoanID           int64
	PaymentID        int64
	PaymentType      models.PaymentType
	Amount           decimal.Decimal
	OutstandingAfter decimal.Decimal
}

func (e PaymentAppliedEvent) Type() EventType {
	return EventTypePaymentApplied
}

// SnapshotCreatedEvent represents a finalized pool snapshot
type SnapshotCreatedEvent struct {
	SnapshotID      int64
	FundMonth       int
	CumulativeUnits int64
}

func (e SnapshotCreatedEvent) Type() EventType {
	return EventTypeSnapshotCreated
}

// InterestDistributedEvent represents a completed pro-rata distribution
type InterestDistributedEvent struct {
	InterestEntryID int64
	Amount          decimal.Decimal
	MembersAffected int
	Residual        decimal.Decimal
}

func (e InterestDistributedEvent) Type() EventType {
	return EventTypeInterestDistributed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events; called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events are processed independently of the transaction lifecycle, so
	// emission uses a background context rather than the (possibly expired)
	// transaction context.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event after commit")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events; called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
