package models

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

var samplePayload = EventPayload{
	Title:       "A",
	Description: "d",
	CardImgURL:  "u",
	Location:    "L",
}

// runEventRepoSuite exercises the behaviour every EventRepo backend must share.
func runEventRepoSuite(t *testing.T, newRepo func(t *testing.T) EventRepo) {
	ctx := context.Background()

	t.Run("walkthrough", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.CreateEvent(ctx, "X", samplePayload)
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if created.ID != 0 {
			t.Errorf("first id = %d, want 0", created.ID)
		}
		if created.Owner != "X" {
			t.Errorf("owner = %q, want %q", created.Owner, "X")
		}

		attended, err := repo.AttendEvent(ctx, "Y", 0)
		if err != nil {
			t.Fatalf("AttendEvent failed: %v", err)
		}
		if !reflect.DeepEqual(attended.Attendees, []string{"Y"}) {
			t.Errorf("attendees = %v, want [Y]", attended.Attendees)
		}

		_, err = repo.UpdateEvent(ctx, "Y", 0, EventPayload{Title: "B"})
		var authErr *NotAuthorizedError
		if !errors.As(err, &authErr) {
			t.Fatalf("UpdateEvent by Y: expected NotAuthorizedError, got %v", err)
		}
		if authErr.Caller != "Y" {
			t.Errorf("rejected caller = %q, want %q", authErr.Caller, "Y")
		}

		updated, err := repo.UpdateEvent(ctx, "X", 0, EventPayload{Title: "B", Location: "M"})
		if err != nil {
			t.Fatalf("UpdateEvent by X failed: %v", err)
		}
		if updated.UpdatedAt == nil {
			t.Fatal("updated_at should be set after update")
		}
		if updated.Title != "B" || updated.Location != "M" || updated.Description != "" {
			t.Errorf("unexpected fields after update: %+v", updated)
		}

		if _, err := repo.DeleteEvent(ctx, "Y", 0); !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("DeleteEvent by Y: expected ErrNotAuthorized, got %v", err)
		}

		deleted, err := repo.DeleteEvent(ctx, "X", 0)
		if err != nil {
			t.Fatalf("DeleteEvent by X failed: %v", err)
		}
		if deleted.Title != "B" || !reflect.DeepEqual(deleted.Attendees, []string{"Y"}) {
			t.Errorf("deleted snapshot = %+v", deleted)
		}

		if _, err := repo.GetEvent(ctx, 0); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetEvent after delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.CreateEvent(ctx, "owner", samplePayload)
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		got, err := repo.GetEvent(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Title != samplePayload.Title || got.Description != samplePayload.Description ||
			got.CardImgURL != samplePayload.CardImgURL || got.Location != samplePayload.Location {
			t.Errorf("text fields = %+v, want %+v", got, samplePayload)
		}
		if got.Attendees == nil || len(got.Attendees) != 0 {
			t.Errorf("attendees = %#v, want empty slice", got.Attendees)
		}
		if got.UpdatedAt != nil {
			t.Errorf("updated_at = %v, want nil", got.UpdatedAt)
		}
		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("created_at = %v, want %v", got.CreatedAt, created.CreatedAt)
		}
	})

	t.Run("ids are never reused", func(t *testing.T) {
		repo := newRepo(t)

		seen := make(map[uint64]bool)
		for i := 0; i < 5; i++ {
			e, err := repo.CreateEvent(ctx, "owner", samplePayload)
			if err != nil {
				t.Fatalf("CreateEvent failed: %v", err)
			}
			if seen[e.ID] {
				t.Fatalf("duplicate id %d", e.ID)
			}
			seen[e.ID] = true
		}

		if _, err := repo.DeleteEvent(ctx, "owner", 4); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		next, err := repo.CreateEvent(ctx, "owner", samplePayload)
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if next.ID != 5 {
			t.Errorf("id after delete = %d, want 5", next.ID)
		}
	})

	t.Run("failed mutations leave state unchanged", func(t *testing.T) {
		repo := newRepo(t)

		created, _ := repo.CreateEvent(ctx, "owner", samplePayload)
		if _, err := repo.AttendEvent(ctx, "guest", created.ID); err != nil {
			t.Fatalf("AttendEvent failed: %v", err)
		}
		before, _ := repo.GetEvent(ctx, created.ID)

		if _, err := repo.UpdateEvent(ctx, "intruder", created.ID, EventPayload{Title: "hacked"}); err == nil {
			t.Fatal("expected update by non-owner to fail")
		}
		if _, err := repo.DeleteEvent(ctx, "intruder", created.ID); err == nil {
			t.Fatal("expected delete by non-owner to fail")
		}

		after, err := repo.GetEvent(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if !reflect.DeepEqual(before, after) {
			t.Errorf("state changed after rejected mutations:\nbefore %+v\nafter  %+v", before, after)
		}
	})

	t.Run("owner never changes", func(t *testing.T) {
		repo := newRepo(t)

		created, _ := repo.CreateEvent(ctx, "owner", samplePayload)
		_, _ = repo.AttendEvent(ctx, "guest", created.ID)
		_, _ = repo.UpdateEvent(ctx, "owner", created.ID, EventPayload{Title: "v2"})
		_, _ = repo.UpdateEvent(ctx, "guest", created.ID, EventPayload{Title: "v3"})

		got, _ := repo.GetEvent(ctx, created.ID)
		if got.Owner != "owner" {
			t.Errorf("owner = %q, want %q", got.Owner, "owner")
		}
	})

	t.Run("attend is idempotent", func(t *testing.T) {
		repo := newRepo(t)

		created, _ := repo.CreateEvent(ctx, "owner", samplePayload)
		first, err := repo.AttendEvent(ctx, "guest", created.ID)
		if err != nil {
			t.Fatalf("first AttendEvent failed: %v", err)
		}
		second, err := repo.AttendEvent(ctx, "guest", created.ID)
		if err != nil {
			t.Fatalf("second AttendEvent failed: %v", err)
		}
		if !reflect.DeepEqual(first.Attendees, second.Attendees) {
			t.Errorf("attendees changed on repeat: %v -> %v", first.Attendees, second.Attendees)
		}

		third, _ := repo.AttendEvent(ctx, "other", created.ID)
		if !reflect.DeepEqual(third.Attendees, []string{"guest", "other"}) {
			t.Errorf("attendees = %v, want [guest other]", third.Attendees)
		}
	})

	// Attendance is a separate mutation channel: it does not bump updated_at.
	t.Run("attend leaves updated_at untouched", func(t *testing.T) {
		repo := newRepo(t)

		created, _ := repo.CreateEvent(ctx, "owner", samplePayload)
		attended, _ := repo.AttendEvent(ctx, "guest", created.ID)
		if attended.UpdatedAt != nil {
			t.Errorf("updated_at = %v after attend on fresh event, want nil", attended.UpdatedAt)
		}

		updated, _ := repo.UpdateEvent(ctx, "owner", created.ID, samplePayload)
		if updated.UpdatedAt.Before(updated.CreatedAt) {
			t.Errorf("updated_at %v before created_at %v", updated.UpdatedAt, updated.CreatedAt)
		}
		attended, _ = repo.AttendEvent(ctx, "late", created.ID)
		if !attended.UpdatedAt.Equal(*updated.UpdatedAt) {
			t.Errorf("updated_at moved on attend: %v -> %v", updated.UpdatedAt, attended.UpdatedAt)
		}
	})

	t.Run("deleted events are gone for every operation", func(t *testing.T) {
		repo := newRepo(t)

		created, _ := repo.CreateEvent(ctx, "owner", samplePayload)
		if _, err := repo.DeleteEvent(ctx, "owner", created.ID); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}

		if _, err := repo.GetEvent(ctx, created.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetEvent: expected ErrNotFound, got %v", err)
		}
		if _, err := repo.UpdateEvent(ctx, "owner", created.ID, samplePayload); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateEvent: expected ErrNotFound, got %v", err)
		}
		if _, err := repo.AttendEvent(ctx, "owner", created.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("AttendEvent: expected ErrNotFound, got %v", err)
		}
		if _, err := repo.DeleteEvent(ctx, "owner", created.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteEvent: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing id wins over authorization", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.UpdateEvent(ctx, "anyone", 42, samplePayload)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if nf.Msg != "event with id=42 not found" {
			t.Errorf("message = %q", nf.Msg)
		}
	})

	t.Run("returned events are copies", func(t *testing.T) {
		repo := newRepo(t)

		created, _ := repo.CreateEvent(ctx, "owner", samplePayload)
		attended, _ := repo.AttendEvent(ctx, "guest", created.ID)
		attended.Attendees[0] = "tampered"
		attended.Title = "tampered"

		got, _ := repo.GetEvent(ctx, created.ID)
		if got.Attendees[0] != "guest" || got.Title != samplePayload.Title {
			t.Errorf("stored event was modified through a returned value: %+v", got)
		}
	})
}
