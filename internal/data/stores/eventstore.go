package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/event"
	"github.com/colonyops/mingle/internal/data/db"
)

// EventStore persists events and their tagged-participant rows.
type EventStore struct {
	db *db.DB
}

// NewEventStore creates a SQLite-backed event store.
func NewEventStore(database *db.DB) *EventStore {
	return &EventStore{db: database}
}

// Save upserts the event and replaces its participant rows in one
// transaction. RSVP statuses of participants that remain tagged are
// preserved; newly tagged participants start pending. Participants dropped
// from the description lose their row.
func (s *EventStore) Save(ctx context.Context, ev event.Event, participants []directory.Participant) error {
	now := time.Now().Unix()

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, title, venue, starts_at, description, organizer_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title        = excluded.title,
				venue        = excluded.venue,
				starts_at    = excluded.starts_at,
				description  = excluded.description,
				organizer_id = excluded.organizer_id,
				updated_at   = excluded.updated_at
		`, ev.ID, ev.Title, ev.Venue, ev.StartsAt.Unix(), ev.Description, ev.OrganizerID, now, now)
		if err != nil {
			return fmt.Errorf("save event %q: %w", ev.ID, err)
		}

		// Preserve RSVP state across re-saves.
		existing := make(map[string]directory.Status)
		rows, err := tx.QueryContext(ctx,
			`SELECT participant_id, status FROM event_participants WHERE event_id = ?`, ev.ID)
		if err != nil {
			return fmt.Errorf("load existing participants: %w", err)
		}
		for rows.Next() {
			var id, status string
			if err := rows.Scan(&id, &status); err != nil {
				_ = rows.Close()
				return fmt.Errorf("scan participant status: %w", err)
			}
			existing[id] = directory.Status(status)
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return err
		}
		_ = rows.Close()

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM event_participants WHERE event_id = ?`, ev.ID); err != nil {
			return fmt.Errorf("clear participants: %w", err)
		}

		for _, p := range participants {
			status, ok := existing[p.ID]
			if !ok {
				status = directory.StatusPending
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO event_participants (event_id, participant_id, status)
				VALUES (?, ?, ?)
			`, ev.ID, p.ID, string(status)); err != nil {
				return fmt.Errorf("attach participant %q: %w", p.ID, err)
			}
		}

		return nil
	})
}

// Get returns an event by id. Returns ErrNotFound if absent.
func (s *EventStore) Get(ctx context.Context, id string) (event.Event, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, title, venue, starts_at, description, organizer_id, created_at, updated_at
		FROM events WHERE id = ?
	`, id)

	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, fmt.Errorf("event %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("get event %q: %w", id, err)
	}
	return ev, nil
}

// List returns all events ordered by start time, soonest first.
func (s *EventStore) List(ctx context.Context) ([]event.Event, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, title, venue, starts_at, description, organizer_id, created_at, updated_at
		FROM events ORDER BY starts_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []event.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Delete removes an event; participant rows cascade.
func (s *EventStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %q: %w", id, ErrNotFound)
	}
	return nil
}

// Participants returns the tagged participants of an event with their RSVP
// state, joined against the directory for display fields.
func (s *EventStore) Participants(ctx context.Context, eventID string) ([]event.Participant, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT p.id, p.display_name, p.handle, p.contact_email, p.avatar_url, p.external, ep.status
		FROM event_participants ep
		JOIN participants p ON p.id = ep.participant_id
		WHERE ep.event_id = ?
		ORDER BY p.display_name COLLATE NOCASE, p.id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("event %q participants: %w", eventID, err)
	}
	defer func() { _ = rows.Close() }()

	var out []event.Participant
	for rows.Next() {
		var p directory.Participant
		var external int
		var status string
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.Handle, &p.ContactEmail, &p.AvatarURL, &external, &status); err != nil {
			return nil, fmt.Errorf("scan event participant: %w", err)
		}
		p.External = external != 0
		out = append(out, event.Participant{Participant: p, Status: directory.Status(status)})
	}
	return out, rows.Err()
}

// StatusMap returns participant id → RSVP status for the projector.
func (s *EventStore) StatusMap(ctx context.Context, eventID string) (map[string]directory.Status, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT participant_id, status FROM event_participants WHERE event_id = ?`, eventID)
	if err != nil {
		return nil, fmt.Errorf("event %q status map: %w", eventID, err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]directory.Status)
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		out[id] = directory.Status(status)
	}
	return out, rows.Err()
}

// SetStatus updates one participant's RSVP state on an event. Returns
// ErrNotFound when the participant is not tagged on the event.
func (s *EventStore) SetStatus(ctx context.Context, eventID, participantID string, status directory.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	res, err := s.db.Conn().ExecContext(ctx, `
		UPDATE event_participants SET status = ?
		WHERE event_id = ? AND participant_id = ?
	`, string(status), eventID, participantID)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("participant %q on event %q: %w", participantID, eventID, ErrNotFound)
	}
	return nil
}

func scanEvent(row rowScanner) (event.Event, error) {
	var ev event.Event
	var startsAt, createdAt, updatedAt int64
	err := row.Scan(&ev.ID, &ev.Title, &ev.Venue, &startsAt, &ev.Description, &ev.OrganizerID, &createdAt, &updatedAt)
	if err != nil {
		return event.Event{}, err
	}
	ev.StartsAt = time.Unix(startsAt, 0).UTC()
	ev.CreatedAt = time.Unix(createdAt, 0).UTC()
	ev.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return ev, nil
}
