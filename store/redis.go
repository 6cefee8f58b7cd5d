package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/maze"
)

const (
	defaultPrefix = "astarviz:maze:"
	indexSuffix   = "index"
)

// RedisStore keeps each maze under <prefix><name> and the set of names
// under <prefix>index.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps client. ttl == 0 keeps mazes forever; an empty prefix
// selects "astarviz:maze:".
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(name string) string { return s.prefix + name }
func (s *RedisStore) index() string          { return s.prefix + indexSuffix }

// Save stores g and records its name in the index.
func (s *RedisStore) Save(ctx context.Context, name string, g *grid.Grid) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(name), maze.Marshal(g), s.ttl)
		p.SAdd(ctx, s.index(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: redis save %s: %w", name, err)
	}

	return nil
}

// Load fetches and decodes the named maze. A maze that expired is dropped
// from the index.
func (s *RedisStore) Load(ctx context.Context, name string) (*grid.Grid, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	text, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		_ = s.client.SRem(ctx, s.index(), name).Err()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis load %s: %w", name, err)
	}

	return maze.Unmarshal(text)
}

// List returns the indexed names in lexical order.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.index()).Result()
	if err != nil {
		return nil, fmt.Errorf("store: redis list: %w", err)
	}
	sort.Strings(names)

	return names, nil
}

// Delete removes the named maze and its index entry.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.key(name))
		p.SRem(ctx, s.index(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: redis delete %s: %w", name, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
)
