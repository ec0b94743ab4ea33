package models

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const eventsSchema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY,
    owner TEXT NOT NULL,
    event_title TEXT NOT NULL,
    event_description TEXT NOT NULL,
    event_card_imgurl TEXT NOT NULL,
    event_location TEXT NOT NULL,
    -- JSON array, insertion ordered
    attendees TEXT NOT NULL DEFAULT '[]',
    -- unix nanoseconds
    created_at INTEGER NOT NULL,
    updated_at INTEGER
);

CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);

INSERT OR IGNORE INTO counters (name, value) VALUES ('events', 0);
`

const selectEvent = `SELECT id, owner, event_title, event_description, event_card_imgurl,
    event_location, attendees, created_at, updated_at FROM events WHERE id = ?`

func initSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, eventsSchema); err != nil {
		return fmt.Errorf("failed to apply events schema: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, id uint64) (Event, error) {
	var (
		event     Event
		attendees string
		createdAt int64
		updatedAt sql.NullInt64
	)
	err := row.Scan(&event.ID, &event.Owner, &event.Title, &event.Description,
		&event.CardImgURL, &event.Location, &attendees, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, notFound(id)
	}
	if err != nil {
		return Event{}, fmt.Errorf("failed to scan event: %w", err)
	}
	if err := json.Unmarshal([]byte(attendees), &event.Attendees); err != nil {
		return Event{}, fmt.Errorf("failed to decode attendees: %w", err)
	}
	event.CreatedAt = time.Unix(0, createdAt).UTC()
	if updatedAt.Valid {
		t := time.Unix(0, updatedAt.Int64).UTC()
		event.UpdatedAt = &t
	}
	return event, nil
}

// withTx runs fn in a transaction and commits only if fn succeeds.
func (s *SqliteRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SqliteRepo) CreateEvent(ctx context.Context, caller string, payload EventPayload) (*Event, error) {
	var event Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`UPDATE counters SET value = value + 1 WHERE name = ? RETURNING value - 1`,
			EventsCounter,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to allocate event id: %w", err)
		}

		event = newEvent(uint64(id), caller, payload, time.Now().UTC())
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (id, owner, event_title, event_description, event_card_imgurl,
			    event_location, attendees, created_at) VALUES (?, ?, ?, ?, ?, ?, '[]', ?)`,
			id, event.Owner, event.Title, event.Description, event.CardImgURL,
			event.Location, event.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event.Clone(), nil
}

func (s *SqliteRepo) GetEvent(ctx context.Context, id uint64) (*Event, error) {
	event, err := scanEvent(s.db.QueryRowContext(ctx, selectEvent, int64(id)), id)
	if err != nil {
		return nil, err
	}
	return event.Clone(), nil
}

func (s *SqliteRepo) UpdateEvent(ctx context.Context, caller string, id uint64, payload EventPayload) (*Event, error) {
	var event Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		event, err = ownedEvent(ctx, tx, caller, id)
		if err != nil {
			return err
		}

		event.apply(payload)
		now := time.Now().UTC()
		event.UpdatedAt = &now
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET event_title = ?, event_description = ?, event_card_imgurl = ?,
			    event_location = ?, updated_at = ? WHERE id = ?`,
			event.Title, event.Description, event.CardImgURL, event.Location,
			now.UnixNano(), int64(id),
		)
		if err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event.Clone(), nil
}

func (s *SqliteRepo) DeleteEvent(ctx context.Context, caller string, id uint64) (*Event, error) {
	var event Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		event, err = ownedEvent(ctx, tx, caller, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, int64(id)); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event.Clone(), nil
}

func (s *SqliteRepo) AttendEvent(ctx context.Context, caller string, id uint64) (*Event, error) {
	var event Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		event, err = scanEvent(tx.QueryRowContext(ctx, selectEvent, int64(id)), id)
		if err != nil {
			return err
		}
		if event.IsAttendee(caller) {
			return nil
		}

		event.Attendees = append(event.Attendees, caller)
		encoded, err := json.Marshal(event.Attendees)
		if err != nil {
			return fmt.Errorf("failed to encode attendees: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE events SET attendees = ? WHERE id = ?`, string(encoded), int64(id)); err != nil {
			return fmt.Errorf("failed to add attendee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event.Clone(), nil
}

func ownedEvent(ctx context.Context, tx *sql.Tx, caller string, id uint64) (Event, error) {
	event, err := scanEvent(tx.QueryRowContext(ctx, selectEvent, int64(id)), id)
	if err != nil {
		return Event{}, err
	}
	if event.Owner != caller {
		return Event{}, notAuthorized(id, caller)
	}
	return event, nil
}
