package models

import (
	"context"
	"slices"
	"time"
)

const (
	EventsDbName  = "eventhub"
	EventsColName = "events"
	CountersCol   = "counters"
	EventsCounter = "events"
)

type Event struct {
	ID          uint64     `bson:"_id" json:"id"`
	Owner       string     `bson:"owner" json:"owner"`
	Title       string     `bson:"event_title" json:"event_title"`             // e.g., "Rooftop Jazz Night"
	Description string     `bson:"event_description" json:"event_description"` // e.g., "Live quartet and drinks"
	CardImgURL  string     `bson:"event_card_imgurl" json:"event_card_imgurl"`
	Location    string     `bson:"event_location" json:"event_location"` // e.g., "Osu, Accra"
	Attendees   []string   `bson:"attendees" json:"attendees"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// EventPayload carries the owner-editable fields of an Event. It is only used
// to build or refresh a record and is never stored on its own.
type EventPayload struct {
	Title       string `json:"event_title"`
	Description string `json:"event_description"`
	CardImgURL  string `json:"event_card_imgurl"`
	Location    string `json:"event_location"`
}

type EventRepo interface {
	CreateEvent(ctx context.Context, caller string, payload EventPayload) (*Event, error)
	GetEvent(ctx context.Context, id uint64) (*Event, error)
	UpdateEvent(ctx context.Context, caller string, id uint64, payload EventPayload) (*Event, error)
	DeleteEvent(ctx context.Context, caller string, id uint64) (*Event, error)
	AttendEvent(ctx context.Context, caller string, id uint64) (*Event, error)
}

// newEvent builds a fresh record owned by caller.
func newEvent(id uint64, caller string, payload EventPayload, now time.Time) Event {
	e := Event{
		ID:        id,
		Owner:     caller,
		Attendees: []string{},
		CreatedAt: now,
	}
	e.apply(payload)
	return e
}

func (e *Event) apply(payload EventPayload) {
	e.Title = payload.Title
	e.Description = payload.Description
	e.CardImgURL = payload.CardImgURL
	e.Location = payload.Location
}

// IsAttendee reports whether caller already joined the event.
func (e *Event) IsAttendee(caller string) bool {
	return slices.Contains(e.Attendees, caller)
}

// Clone returns a deep copy so callers never share the stored attendee slice
// or updated_at pointer.
func (e Event) Clone() *Event {
	c := e
	c.Attendees = slices.Clone(e.Attendees)
	if c.Attendees == nil {
		c.Attendees = []string{}
	}
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
