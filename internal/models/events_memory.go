package models

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps every event in process memory. Each operation holds the
// lock for its whole duration, so no reader ever sees a half-applied write.
type MemoryRepo struct {
	mu     sync.RWMutex
	events map[uint64]Event
	nextID uint64
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		events: make(map[uint64]Event),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryRepo) CreateEvent(ctx context.Context, caller string, payload EventPayload) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	event := newEvent(id, caller, payload, m.now())
	m.events[id] = event
	return event.Clone(), nil
}

func (m *MemoryRepo) GetEvent(ctx context.Context, id uint64) (*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, ok := m.events[id]
	if !ok {
		return nil, notFound(id)
	}
	return event.Clone(), nil
}

func (m *MemoryRepo) UpdateEvent(ctx context.Context, caller string, id uint64, payload EventPayload) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, err := m.owned(caller, id)
	if err != nil {
		return nil, err
	}

	// the stored value is a copy, nothing is committed until the map write
	event.apply(payload)
	now := m.now()
	event.UpdatedAt = &now
	m.events[id] = event
	return event.Clone(), nil
}

func (m *MemoryRepo) DeleteEvent(ctx context.Context, caller string, id uint64) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, err := m.owned(caller, id)
	if err != nil {
		return nil, err
	}
	delete(m.events, id)
	return event.Clone(), nil
}

func (m *MemoryRepo) AttendEvent(ctx context.Context, caller string, id uint64) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[id]
	if !ok {
		return nil, notFound(id)
	}
	if event.IsAttendee(caller) {
		return event.Clone(), nil
	}

	updated := event.Clone()
	updated.Attendees = append(updated.Attendees, caller)
	m.events[id] = *updated
	return updated.Clone(), nil
}

// owned looks up id and checks caller against the stored owner. Must be
// called with the write lock held.
func (m *MemoryRepo) owned(caller string, id uint64) (Event, error) {
	event, ok := m.events[id]
	if !ok {
		return Event{}, notFound(id)
	}
	if event.Owner != caller {
		return Event{}, notAuthorized(id, caller)
	}
	return event, nil
}
