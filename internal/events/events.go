// Package events distributes ingestion lifecycle notifications to
// registered observers (console reporters, future IPC surfaces).
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types.
const (
	TypeIngestCompleted = "ingest:completed"
	TypeIngestFailed    = "ingest:failed"
	TypeIngestSkipped   = "ingest:skipped"
)

// IngestOutcome is the payload of an ingestion lifecycle event.
type IngestOutcome struct {
	CycleID    string
	StatePath  string
	CapturedAt time.Time
	Inserted   int
	Err        error
}

// Event is a single notification dispatched to observers.
type Event struct {
	Type    string
	Outcome IngestOutcome
}

// Observer receives dispatched events.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	OnEvent(event Event)

	// Name returns a human-readable observer name for logging.
	Name() string
}

// Dispatcher fans events out to registered observers. Thread-safe;
// observers are notified sequentially in registration order.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
	log       zerolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		log: log.With().Str("component", "events").Logger(),
	}
}

// Register adds an observer; it will receive all future events.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
	d.log.Debug().Str("observer", observer.Name()).Msg("registered observer")
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == observer {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			d.log.Debug().Str("observer", observer.Name()).Msg("unregistered observer")
			return
		}
	}
}

// Dispatch sends an event to all registered observers.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, obs := range observers {
		obs.OnEvent(event)
	}
}
