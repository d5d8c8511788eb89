package setstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

var redisSetPrefix string = "set/"

// RedisSetStore keeps host sets in redis, for deployments where the
// allow-list is shared between processes and edited at runtime.
type RedisSetStore struct {
	Client *redis.Client
}

func NewRedisSetStore(redisURL string) (*RedisSetStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	rss := RedisSetStore{
		Client: rdb,
	}
	return &rss, nil
}

func (s *RedisSetStore) InSet(ctx context.Context, name, val string) (bool, error) {
	return s.Client.SIsMember(ctx, redisSetPrefix+name, NormalizeHost(val)).Result()
}

func (s *RedisSetStore) AddToSet(ctx context.Context, name string, vals ...string) error {
	members := make([]interface{}, len(vals))
	for i, val := range vals {
		members[i] = NormalizeHost(val)
	}
	return s.Client.SAdd(ctx, redisSetPrefix+name, members...).Err()
}
