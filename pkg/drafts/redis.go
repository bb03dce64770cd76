package drafts

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/topicsheet/pkg/cache"
)

// RedisStore keeps each owner's drafts in one Redis hash keyed by draft
// name, so listing an owner's drafts is a single HGETALL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to the Redis server at url and pings it,
// retrying transient failures.
func NewRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, unavailable(err, "connect")
	}
	return NewRedisStoreFromClient(client, prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(owner string) string {
	return s.prefix + "drafts:" + owner
}

func (s *RedisStore) Put(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.HSet(ctx, s.key(d.Owner), d.Name, data).Err(); err != nil {
		return unavailable(err, "put")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, owner, name string) (*Draft, error) {
	data, err := s.client.HGet(ctx, s.key(owner), name).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err, "get")
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse draft %q: %w", name, err)
	}
	return &d, nil
}

func (s *RedisStore) List(ctx context.Context, owner string) ([]Summary, error) {
	all, err := s.client.HGetAll(ctx, s.key(owner)).Result()
	if err != nil {
		return nil, unavailable(err, "list")
	}
	list := make([]Summary, 0, len(all))
	for name, raw := range all {
		var d Draft
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			continue
		}
		list = append(list, Summary{Name: name, UpdatedAt: d.UpdatedAt})
	}
	sortSummaries(list)
	return list, nil
}

func (s *RedisStore) Delete(ctx context.Context, owner, name string) error {
	if err := s.client.HDel(ctx, s.key(owner), name).Err(); err != nil {
		return unavailable(err, "delete")
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
