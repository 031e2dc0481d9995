package mingle

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/event"
	"github.com/colonyops/mingle/internal/core/logging"
	"github.com/colonyops/mingle/internal/core/mention"
	"github.com/colonyops/mingle/internal/data/stores"
	"github.com/colonyops/mingle/pkg/randid"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"
)

// CreateOptions carries the user-supplied fields for a new event.
// Description holds mention markup as produced by the composer.
type CreateOptions struct {
	Title       string
	Venue       string
	StartsAt    time.Time
	Description string
	OrganizerID string
}

// Detail is an event joined with its tagged participants.
type Detail struct {
	Event        event.Event         `json:"event"`
	Participants []event.Participant `json:"participants"`
}

// EventService orchestrates event persistence. Saving an event also
// resolves its description's mentions into participant rows and keeps
// the recently-mentioned list warm for the next composition.
type EventService struct {
	events    *stores.EventStore
	dir       *stores.DirectoryStore
	directory *DirectoryService
	log       zerolog.Logger
}

func NewEventService(events *stores.EventStore, dir *stores.DirectoryStore, directory *DirectoryService) *EventService {
	return &EventService{
		events:    events,
		dir:       dir,
		directory: directory,
		log:       logging.Component("events"),
	}
}

// Create validates and persists a new event.
func (s *EventService) Create(ctx context.Context, opts CreateOptions) (event.Event, error) {
	now := time.Now().UTC()
	ev := event.Event{
		ID:          randid.Generate(12),
		Title:       strings.TrimSpace(opts.Title),
		Venue:       strings.TrimSpace(opts.Venue),
		StartsAt:    opts.StartsAt,
		Description: opts.Description,
		OrganizerID: opts.OrganizerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := ev.Validate(); err != nil {
		return event.Event{}, err
	}
	if err := s.save(ctx, ev); err != nil {
		return event.Event{}, err
	}

	s.log.Info().Str("id", ev.ID).Str("title", ev.Title).Msg("event created")
	return ev, nil
}

// Update replaces the mutable fields of an existing event. Participants
// already tagged keep their RSVP status; ones no longer mentioned are
// dropped, new ones start pending.
func (s *EventService) Update(ctx context.Context, id string, opts CreateOptions) (event.Event, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return event.Event{}, err
	}

	ev.Title = strings.TrimSpace(opts.Title)
	ev.Venue = strings.TrimSpace(opts.Venue)
	ev.StartsAt = opts.StartsAt
	ev.Description = opts.Description
	ev.UpdatedAt = time.Now().UTC()

	if err := ev.Validate(); err != nil {
		return event.Event{}, err
	}
	if err := s.save(ctx, ev); err != nil {
		return event.Event{}, err
	}
	return ev, nil
}

// save resolves mention participants from the description and persists
// event and tags together. Participants named in the markup but missing
// from the directory are registered first so the tag rows have a target;
// external guests land here, and so do mentions carried in imported markup.
func (s *EventService) save(ctx context.Context, ev event.Event) error {
	participants := mention.Participants(ev.Description)
	for _, p := range participants {
		if err := s.ensureKnown(ctx, p); err != nil {
			return err
		}
	}

	if err := s.events.Save(ctx, ev, participants); err != nil {
		return fmt.Errorf("save event: %w", err)
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	s.directory.RecordRecent(ctx, ids...)
	return nil
}

// ensureKnown upserts a mentioned participant only when the directory does
// not know the ID yet, so a hand-edited display name in markup does not
// clobber the registered record.
func (s *EventService) ensureKnown(ctx context.Context, p directory.Participant) error {
	_, err := s.dir.Get(ctx, p.ID)
	if err == nil {
		return nil
	}
	if !stores.IsNotFoundError(err) {
		return fmt.Errorf("lookup participant: %w", err)
	}
	if err := s.dir.Upsert(ctx, p); err != nil {
		return fmt.Errorf("register participant: %w", err)
	}
	return nil
}

// Get returns an event by ID.
func (s *EventService) Get(ctx context.Context, id string) (event.Event, error) {
	return s.events.Get(ctx, id)
}

// Detail returns an event with its resolved participant list.
func (s *EventService) Detail(ctx context.Context, id string) (Detail, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	parts, err := s.events.Participants(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Event: ev, Participants: parts}, nil
}

// List returns all events ordered by start time.
func (s *EventService) List(ctx context.Context) ([]event.Event, error) {
	return s.events.List(ctx)
}

// Search fuzzy-matches query against event titles and venues.
func (s *EventService) Search(ctx context.Context, query string) ([]event.Event, error) {
	all, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}

	matches := fuzzy.FindFrom(query, eventSource(all))
	out := make([]event.Event, len(matches))
	for i, m := range matches {
		out[i] = all[m.Index]
	}
	return out, nil
}

// Upcoming returns events starting at or after now, soonest first.
func (s *EventService) Upcoming(ctx context.Context, now time.Time) ([]event.Event, error) {
	all, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, ev := range all {
		if !ev.StartsAt.Before(now) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

// RSVP records a participant's status for an event they are tagged in.
func (s *EventService) RSVP(ctx context.Context, eventID, participantID string, status directory.Status) error {
	if err := s.events.SetStatus(ctx, eventID, participantID, status); err != nil {
		return err
	}
	s.log.Info().
		Str("event", eventID).
		Str("participant", participantID).
		Str("status", string(status)).
		Msg("rsvp recorded")
	return nil
}

// Rendered projects an event description into display segments with the
// current RSVP statuses applied.
func (s *EventService) Rendered(ctx context.Context, id string) ([]mention.Segment, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	statuses, err := s.events.StatusMap(ctx, id)
	if err != nil {
		return nil, err
	}
	return mention.Project(ev.Description, statuses), nil
}

// Delete removes an event and its participant tags.
func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

type eventSource []event.Event

func (e eventSource) Len() int { return len(e) }
func (e eventSource) String(i int) string {
	return e[i].Title + " " + e[i].Venue
}
