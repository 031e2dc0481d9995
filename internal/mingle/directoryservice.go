package mingle

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/kv"
	"github.com/colonyops/mingle/internal/core/logging"
	"github.com/colonyops/mingle/internal/core/validate"
	"github.com/colonyops/mingle/internal/data/stores"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"
)

const (
	recentsKey = "recent"
	recentsMax = 16
	recentsTTL = 30 * 24 * time.Hour
)

// DirectoryService answers participant lookups for the mention workflow.
// Suggestions come from the directory store, re-ranked with a fuzzy match
// over display name and handle so prefix typos still surface the right
// person. An empty query falls back to recently mentioned participants,
// then to followed ones.
type DirectoryService struct {
	store   *stores.DirectoryStore
	follows *stores.FollowStore
	recents *kv.Bucket[[]string]
	limit   int
	log     zerolog.Logger
}

func NewDirectoryService(store *stores.DirectoryStore, follows *stores.FollowStore, kvStore kv.KV, limit int) *DirectoryService {
	return &DirectoryService{
		store:   store,
		follows: follows,
		recents: kv.NewBucket[[]string](kvStore, "mentions"),
		limit:   limit,
		log:     logging.Component("directory"),
	}
}

// participantSource adapts a participant slice to fuzzy.Source.
type participantSource []directory.Participant

func (p participantSource) Len() int { return len(p) }
func (p participantSource) String(i int) string {
	return p[i].DisplayName + " " + p[i].Handle
}

// Suggest returns up to the configured limit of candidates for query.
// Results never include an error for a missing match; no candidates is
// a normal outcome and callers offer the "create external" path instead.
func (s *DirectoryService) Suggest(ctx context.Context, query string) ([]directory.Participant, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.defaultSuggestions(ctx)
	}

	// Over-fetch so the fuzzy re-rank has something to reorder.
	rows, err := s.store.Search(ctx, query, s.limit*4)
	if err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}
	if len(rows) <= 1 {
		return rows, nil
	}

	matches := fuzzy.FindFrom(query, participantSource(rows))
	ranked := make([]directory.Participant, 0, min(len(matches), s.limit))
	seen := make(map[string]struct{}, len(rows))
	for _, m := range matches {
		if len(ranked) == s.limit {
			break
		}
		ranked = append(ranked, rows[m.Index])
		seen[rows[m.Index].ID] = struct{}{}
	}

	// SQL matched but fuzzy scoring rejected it (e.g. a LIKE hit inside
	// an email). Keep store order for those, after the ranked block.
	for _, p := range rows {
		if len(ranked) == s.limit {
			break
		}
		if _, ok := seen[p.ID]; !ok {
			ranked = append(ranked, p)
		}
	}
	return ranked, nil
}

func (s *DirectoryService) defaultSuggestions(ctx context.Context) ([]directory.Participant, error) {
	ids, err := s.recents.Get(ctx, recentsKey)
	if err != nil && !stores.IsNotFoundError(err) {
		return nil, fmt.Errorf("load recent mentions: %w", err)
	}

	out, err := s.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve recent mentions: %w", err)
	}

	if len(out) < s.limit {
		followed, err := s.follows.Following(ctx)
		if err != nil {
			return nil, fmt.Errorf("load follows: %w", err)
		}
		for _, p := range followed {
			if len(out) == s.limit {
				break
			}
			if !slices.ContainsFunc(out, func(q directory.Participant) bool { return q.ID == p.ID }) {
				out = append(out, p)
			}
		}
	}

	if len(out) > s.limit {
		out = out[:s.limit]
	}
	return out, nil
}

// CreateExternal registers an ad hoc participant under a generated
// external ID so later searches and event listings can resolve it.
func (s *DirectoryService) CreateExternal(ctx context.Context, displayName string) (directory.Participant, error) {
	displayName = strings.TrimSpace(displayName)
	if err := validate.DisplayName(displayName); err != nil {
		return directory.Participant{}, err
	}

	p := directory.NewExternal(displayName)
	if err := s.store.Upsert(ctx, p); err != nil {
		return directory.Participant{}, fmt.Errorf("create external participant: %w", err)
	}

	s.log.Debug().Str("id", p.ID).Str("name", p.DisplayName).Msg("created external participant")
	return p, nil
}

// Get returns a single participant by ID.
func (s *DirectoryService) Get(ctx context.Context, id string) (directory.Participant, error) {
	return s.store.Get(ctx, id)
}

// Register upserts a participant record as-is.
func (s *DirectoryService) Register(ctx context.Context, p directory.Participant) error {
	return s.store.Upsert(ctx, p)
}

// RecordRecent moves ids to the front of the recently-mentioned list.
// Failures are logged, not returned; recents are best effort.
func (s *DirectoryService) RecordRecent(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}

	current, err := s.recents.Get(ctx, recentsKey)
	if err != nil && !stores.IsNotFoundError(err) {
		s.log.Warn().Err(err).Msg("load recent mentions")
		return
	}

	next := make([]string, 0, len(ids)+len(current))
	next = append(next, ids...)
	for _, id := range current {
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	if len(next) > recentsMax {
		next = next[:recentsMax]
	}

	if err := s.recents.SetTTL(ctx, recentsKey, next, recentsTTL); err != nil {
		s.log.Warn().Err(err).Msg("store recent mentions")
	}
}
