package events

import "time"

type Type string

const (
	LocationCreated       Type = "location.created"
	LocationUpdated       Type = "location.updated"
	LocationDeleted       Type = "location.deleted"
	DonationOffered       Type = "donation.offered"
	DonationStatusChanged Type = "donation.status_changed"
)

// Event describes a committed change to the map.
type Event struct {
	Type       Type      `json:"type"`
	LocationID uint      `json:"location_id"`
	EntityID   uint      `json:"entity_id"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher accepts events. Implementations must not block the caller for
// long and must not fail it.
type Publisher interface {
	Publish(Event)
}

// Bus fans each event out to every registered publisher.
type Bus struct {
	sinks []Publisher
}

func NewBus(sinks ...Publisher) *Bus {
	b := &Bus{}
	for _, s := range sinks {
		if s != nil {
			b.sinks = append(b.sinks, s)
		}
	}
	return b
}

func (b *Bus) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	for _, s := range b.sinks {
		s.Publish(e)
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(Event) {}
