package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/c360studio/semrdf/rdfmodel"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix is the Redis key prefix for model documents.
const DefaultPrefix = "semrdf:model:"

const backendRedis = "redis"

// noExpiry is the index score of documents without a TTL (2100-01-01).
const noExpiry = 4102444800

// RedisStore stores models in Redis, one N-Triples document per subject
// plus a sorted-set index scored by expiry.
type RedisStore struct {
	client   *backend.Client
	settings settings
}

// NewRedisStore connects to the Redis server at address.
func NewRedisStore(address, password string, db int, opts ...Option) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...Option) *RedisStore {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &RedisStore{client: client, settings: s}
}

func (s *RedisStore) key(uri rdfmodel.URIRefNode) string {
	return s.settings.prefix + string(uri)
}

func (s *RedisStore) indexKey() string {
	return s.settings.prefix + "index"
}

// Save stores v under its subject and indexes it.
func (s *RedisStore) Save(ctx context.Context, v any) (uri rdfmodel.URIRefNode, err error) {
	defer func(start time.Time) { s.settings.metrics.observe(backendRedis, "save", start, err) }(time.Now())

	uri, data, err := encodeModel(v, s.settings.baseIRI)
	if err != nil {
		return "", err
	}

	score := float64(noExpiry)
	if s.settings.ttl > 0 {
		score = float64(time.Now().Add(s.settings.ttl).Unix())
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(uri), data, s.settings.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: string(uri)})
	if _, err = pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("save to redis: %w", err)
	}
	s.settings.logger.Debug("Saved model", "uri", uri, "bytes", len(data))
	return uri, nil
}

// Load populates out from the document stored under uri.
func (s *RedisStore) Load(ctx context.Context, uri rdfmodel.URIRefNode, out any) (err error) {
	defer func(start time.Time) { s.settings.metrics.observe(backendRedis, "load", start, err) }(time.Now())

	data, err := s.client.Get(ctx, s.key(uri)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return fmt.Errorf("get from redis: %w", err)
	}
	return decodeModel(data, uri, out)
}

// Delete removes the document stored under uri and its index entry.
func (s *RedisStore) Delete(ctx context.Context, uri rdfmodel.URIRefNode) (err error) {
	defer func(start time.Time) { s.settings.metrics.observe(backendRedis, "delete", start, err) }(time.Now())

	pipe := s.client.Pipeline()
	del := pipe.Del(ctx, s.key(uri))
	pipe.ZRem(ctx, s.indexKey(), string(uri))
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete from redis: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	return nil
}

// List prunes expired index entries and returns the remaining subjects
// in lexical order.
func (s *RedisStore) List(ctx context.Context) (uris []rdfmodel.URIRefNode, err error) {
	defer func(start time.Time) { s.settings.metrics.observe(backendRedis, "list", start, err) }(time.Now())

	now := float64(time.Now().Unix())
	if err = s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("prune expired models: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	uris = make([]rdfmodel.URIRefNode, len(members))
	for i, m := range members {
		uris[i] = rdfmodel.URIRefNode(m)
	}
	sortURIs(uris)
	return uris, nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
