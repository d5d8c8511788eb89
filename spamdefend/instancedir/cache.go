package instancedir

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheDirectory wraps another Directory with an expiring LRU. Instance
// records change slowly (unlike actor profiles, which are always fetched
// fresh), so a short TTL here cuts most of the lookup traffic.
type CacheDirectory struct {
	Inner Directory
	cache *expirable.LRU[string, InstanceRecord]
}

var _ Directory = (*CacheDirectory)(nil)

func NewCacheDirectory(inner Directory, capacity int, ttl time.Duration) *CacheDirectory {
	return &CacheDirectory{
		Inner: inner,
		cache: expirable.NewLRU[string, InstanceRecord](capacity, nil, ttl),
	}
}

func (d *CacheDirectory) FetchInstance(ctx context.Context, host string) (*InstanceRecord, error) {
	if rec, ok := d.cache.Get(host); ok {
		return &rec, nil
	}
	rec, err := d.Inner.FetchInstance(ctx, host)
	if err != nil {
		return nil, err
	}
	d.cache.Add(host, *rec)
	return rec, nil
}

func (d *CacheDirectory) Purge(host string) {
	d.cache.Remove(host)
}
