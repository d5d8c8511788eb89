package instancedir

import (
	"context"
	"time"
)

// InstanceRecord is the locally-known federation record for a remote server.
type InstanceRecord struct {
	Host string
	// number of local accounts following accounts on this instance
	FollowersCount int64
	// when the local instance first saw this server
	FirstRetrievedAt time.Time
	// self-description from nodeinfo, when available
	Description *string
}

// Directory resolves a host to its federation record.
//
// Contract: a host the local instance has never observed resolves to a fresh
// record (zero followers, FirstRetrievedAt of "now") rather than an error, so
// that a brand-new server is scored as maximally new instead of failing the
// lookup.
type Directory interface {
	FetchInstance(ctx context.Context, host string) (*InstanceRecord, error)
}

// NewUnseenRecord is the record every Directory implementation must return
// for a never-before-observed host.
func NewUnseenRecord(host string) *InstanceRecord {
	return &InstanceRecord{
		Host:             host,
		FollowersCount:   0,
		FirstRetrievedAt: time.Now(),
	}
}
