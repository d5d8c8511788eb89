package profiledir

import (
	"context"
	"errors"
	"time"
)

// ErrProfileNotFound indicates the backend has no record of the actor.
var ErrProfileNotFound = errors.New("actor profile not found")

// ProfileSnapshot is a point-in-time view of a remote or local actor's
// profile, resolved fresh for each evaluation. The spam-defend engine never
// caches these: a stale snapshot could mask a profile edit that changes the
// reputation signals.
type ProfileSnapshot struct {
	// display name; nil when the actor never set one
	Name     *string
	Username string
	// nil for actors on the local instance
	Host *string
	// nil when the actor has no custom avatar at all
	AvatarURL      *string
	Description    *string
	FollowersCount int64
	// when this account was first created or observed
	CreatedAt time.Time
}

// Directory resolves actor ids to profile snapshots. Implemented by the
// backend's user service; a mock implementation is provided for tests.
type Directory interface {
	FetchProfile(ctx context.Context, actorID string) (*ProfileSnapshot, error)
}
