package mingle

import (
	"context"
	"fmt"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/data/stores"
)

// FollowService manages the follow list. Follows only point at known
// directory participants; following an unknown ID is an error rather
// than a dangling row.
type FollowService struct {
	follows *stores.FollowStore
	dir     *stores.DirectoryStore
}

func NewFollowService(follows *stores.FollowStore, dir *stores.DirectoryStore) *FollowService {
	return &FollowService{follows: follows, dir: dir}
}

// Follow starts following a participant. Already following is a no-op.
func (s *FollowService) Follow(ctx context.Context, participantID string) error {
	if _, err := s.dir.Get(ctx, participantID); err != nil {
		if stores.IsNotFoundError(err) {
			return fmt.Errorf("unknown participant %q", participantID)
		}
		return err
	}
	return s.follows.Follow(ctx, participantID)
}

// Unfollow stops following a participant.
func (s *FollowService) Unfollow(ctx context.Context, participantID string) error {
	return s.follows.Unfollow(ctx, participantID)
}

// IsFollowing reports whether the participant is on the follow list.
func (s *FollowService) IsFollowing(ctx context.Context, participantID string) (bool, error) {
	return s.follows.IsFollowing(ctx, participantID)
}

// Following returns followed participants, most recently followed first.
func (s *FollowService) Following(ctx context.Context) ([]directory.Participant, error) {
	return s.follows.Following(ctx)
}
