package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/data/db"
)

// FollowStore tracks which directory participants the local user follows.
type FollowStore struct {
	db *db.DB
}

// NewFollowStore creates a SQLite-backed follow store.
func NewFollowStore(database *db.DB) *FollowStore {
	return &FollowStore{db: database}
}

// Follow records a follow. Following someone twice is not an error.
func (s *FollowStore) Follow(ctx context.Context, participantID string) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO follows (participant_id, created_at) VALUES (?, ?)
		ON CONFLICT (participant_id) DO NOTHING
	`, participantID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("follow %q: %w", participantID, err)
	}
	return nil
}

// Unfollow removes a follow. Returns ErrNotFound when not following.
func (s *FollowStore) Unfollow(ctx context.Context, participantID string) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`DELETE FROM follows WHERE participant_id = ?`, participantID)
	if err != nil {
		return fmt.Errorf("unfollow %q: %w", participantID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("follow %q: %w", participantID, ErrNotFound)
	}
	return nil
}

// IsFollowing reports whether the participant is followed.
func (s *FollowStore) IsFollowing(ctx context.Context, participantID string) (bool, error) {
	var one int
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT 1 FROM follows WHERE participant_id = ?`, participantID).Scan(&one)
	if IsNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is following %q: %w", participantID, err)
	}
	return true, nil
}

// Following returns followed participants, most recently followed first.
func (s *FollowStore) Following(ctx context.Context) ([]directory.Participant, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT p.id, p.display_name, p.handle, p.contact_email, p.avatar_url, p.external
		FROM follows f
		JOIN participants p ON p.id = f.participant_id
		ORDER BY f.created_at DESC, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []directory.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan followed participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
