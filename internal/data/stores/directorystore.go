package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/data/db"
)

// DirectoryStore implements directory.Searcher over the local participants
// table.
type DirectoryStore struct {
	db *db.DB
}

var _ directory.Searcher = (*DirectoryStore)(nil)

// NewDirectoryStore creates a SQLite-backed participant directory.
func NewDirectoryStore(database *db.DB) *DirectoryStore {
	return &DirectoryStore{db: database}
}

// Upsert inserts or updates a participant record.
func (s *DirectoryStore) Upsert(ctx context.Context, p directory.Participant) error {
	if p.ID == "" {
		return fmt.Errorf("upsert participant: empty id")
	}

	now := time.Now().Unix()
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO participants (id, display_name, handle, contact_email, avatar_url, external, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			display_name  = excluded.display_name,
			handle        = excluded.handle,
			contact_email = excluded.contact_email,
			avatar_url    = excluded.avatar_url,
			external      = excluded.external,
			updated_at    = excluded.updated_at
	`, p.ID, p.DisplayName, p.Handle, p.ContactEmail, p.AvatarURL, boolToInt(p.External), now, now)
	if err != nil {
		return fmt.Errorf("upsert participant %q: %w", p.ID, err)
	}
	return nil
}

// Get returns a participant by id. Returns ErrNotFound if absent.
func (s *DirectoryStore) Get(ctx context.Context, id string) (directory.Participant, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, display_name, handle, contact_email, avatar_url, external
		FROM participants WHERE id = ?
	`, id)

	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return directory.Participant{}, fmt.Errorf("participant %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return directory.Participant{}, fmt.Errorf("get participant %q: %w", id, err)
	}
	return p, nil
}

// GetByIDs returns the participants for the given ids, in the order of ids.
// Unknown ids are skipped rather than erroring; the recents list may refer
// to participants that have since been removed.
func (s *DirectoryStore) GetByIDs(ctx context.Context, ids []string) ([]directory.Participant, error) {
	out := make([]directory.Participant, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if IsNotFoundError(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Search matches query case-insensitively as a substring of the display
// name or handle, honoring limit. An empty query returns no rows; recents
// handling for empty queries lives above the store.
func (s *DirectoryStore) Search(ctx context.Context, query string, limit int) ([]directory.Participant, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, display_name, handle, contact_email, avatar_url, external
		FROM participants
		WHERE display_name LIKE ? ESCAPE '\' COLLATE NOCASE
		   OR handle LIKE ? ESCAPE '\' COLLATE NOCASE
		ORDER BY display_name COLLATE NOCASE, id
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search participants %q: %w", query, err)
	}
	defer func() { _ = rows.Close() }()

	var out []directory.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a participant. Returns ErrNotFound when nothing was
// deleted.
func (s *DirectoryStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM participants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete participant %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("participant %q: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (directory.Participant, error) {
	var p directory.Participant
	var external int
	err := row.Scan(&p.ID, &p.DisplayName, &p.Handle, &p.ContactEmail, &p.AvatarURL, &external)
	if err != nil {
		return directory.Participant{}, err
	}
	p.External = external != 0
	return p, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
