package mingle

import (
	"context"
	"testing"
	"time"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/mention"
	"github.com/colonyops/mingle/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	require.NoError(t, app.Directory.Register(ctx, directory.Participant{ID: "u1", DisplayName: "Ana Lima"}))

	opts := CreateOptions{
		Title:       "Garage Show",
		Venue:       "The Basement",
		StartsAt:    time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC),
		Description: "Doors at 8 with @[Ana Lima](u1) and @[Maria](ext-a1b2c3d4e5f6)",
	}

	ev, err := app.Events.Create(ctx, opts)
	require.NoError(t, err)
	require.NotEmpty(t, ev.ID)

	t.Run("mentioned participants tagged pending", func(t *testing.T) {
		detail, err := app.Events.Detail(ctx, ev.ID)
		require.NoError(t, err)
		require.Len(t, detail.Participants, 2)
		for _, p := range detail.Participants {
			assert.Equal(t, directory.StatusPending, p.Status)
		}
	})

	t.Run("external mention registered in directory", func(t *testing.T) {
		p, err := app.Directory.Get(ctx, "ext-a1b2c3d4e5f6")
		require.NoError(t, err)
		assert.True(t, p.External)
		assert.Equal(t, "Maria", p.DisplayName)
	})

	t.Run("mentions become recents", func(t *testing.T) {
		got, err := app.Directory.Suggest(ctx, "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "u1", got[0].ID)
	})

	t.Run("validation failure", func(t *testing.T) {
		_, err := app.Events.Create(ctx, CreateOptions{Title: "  ", StartsAt: opts.StartsAt})
		require.Error(t, err)
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	require.NoError(t, app.Directory.Register(ctx, directory.Participant{ID: "u1", DisplayName: "Ana Lima"}))
	require.NoError(t, app.Directory.Register(ctx, directory.Participant{ID: "u2", DisplayName: "Beto Cruz"}))

	ev, err := app.Events.Create(ctx, CreateOptions{
		Title:       "Picnic",
		StartsAt:    time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Description: "Bring snacks @[Ana Lima](u1)",
	})
	require.NoError(t, err)

	require.NoError(t, app.Events.RSVP(ctx, ev.ID, "u1", directory.StatusAccepted))

	updated, err := app.Events.Update(ctx, ev.ID, CreateOptions{
		Title:       "Picnic (moved)",
		StartsAt:    ev.StartsAt,
		Description: "Bring snacks @[Ana Lima](u1) and @[Beto Cruz](u2)",
	})
	require.NoError(t, err)
	assert.Equal(t, "Picnic (moved)", updated.Title)

	statuses, err := stores.NewEventStore(app.DB).StatusMap(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, directory.StatusAccepted, statuses["u1"], "existing RSVP survives update")
	assert.Equal(t, directory.StatusPending, statuses["u2"], "new mention starts pending")

	t.Run("unknown event", func(t *testing.T) {
		_, err := app.Events.Update(ctx, "nope", CreateOptions{Title: "x", StartsAt: ev.StartsAt})
		require.Error(t, err)
		assert.True(t, stores.IsNotFoundError(err))
	})
}

func TestEventService_RSVPAndRendered(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	require.NoError(t, app.Directory.Register(ctx, directory.Participant{ID: "u1", DisplayName: "Ana Lima"}))

	ev, err := app.Events.Create(ctx, CreateOptions{
		Title:       "Book Club",
		StartsAt:    time.Date(2026, 10, 2, 19, 0, 0, 0, time.UTC),
		Description: "Hosted by @[Ana Lima](u1) and @[Maria](ext-ffffffffffff)",
	})
	require.NoError(t, err)

	require.NoError(t, app.Events.RSVP(ctx, ev.ID, "u1", directory.StatusDeclined))

	t.Run("rsvp for untagged participant fails", func(t *testing.T) {
		err := app.Events.RSVP(ctx, ev.ID, "u9", directory.StatusAccepted)
		require.Error(t, err)
	})

	segments, err := app.Events.Rendered(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, segments, 4)

	assert.Equal(t, mention.SegmentPlain, segments[0].Kind)
	assert.Equal(t, "Hosted by ", segments[0].Text)

	assert.Equal(t, mention.SegmentMention, segments[1].Kind)
	assert.Equal(t, directory.StatusDeclined, segments[1].Status)
	assert.False(t, segments[1].Navigable, "declined internal mention is not navigable")

	assert.Equal(t, mention.SegmentMention, segments[3].Kind)
	assert.True(t, segments[3].External)
	assert.False(t, segments[3].Navigable, "external mention never navigates")
}

func TestEventService_SearchAndUpcoming(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	mk := func(title string, day int) {
		_, err := app.Events.Create(ctx, CreateOptions{
			Title:    title,
			StartsAt: time.Date(2026, 9, day, 18, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
	mk("Garage Show", 20)
	mk("Gallery Night", 5)
	mk("Book Club", 12)

	t.Run("search by title", func(t *testing.T) {
		got, err := app.Events.Search(ctx, "gar")
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "Garage Show", got[0].Title)
	})

	t.Run("empty query returns all", func(t *testing.T) {
		got, err := app.Events.Search(ctx, "")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("upcoming filters past events", func(t *testing.T) {
		now := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		got, err := app.Events.Upcoming(ctx, now)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Book Club", got[0].Title)
		assert.Equal(t, "Garage Show", got[1].Title)
	})
}
