package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/semrdf/rdfmodel"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket is the KV bucket holding model documents.
const DefaultBucket = "SEMRDF_MODELS"

const backendKV = "nats"

// KVStore stores models in a NATS JetStream KV bucket, one N-Triples
// document per subject.
type KVStore struct {
	kv       jetstream.KeyValue
	settings settings
}

// NewKVStore opens the model bucket, creating it if it does not exist.
func NewKVStore(ctx context.Context, js jetstream.JetStream, opts ...Option) (*KVStore, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	kv, err := getOrCreateBucket(ctx, js, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("create models bucket: %w", err)
	}
	return &KVStore{kv: kv, settings: s}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "semrdf model documents",
		History:     5,
	})
}

// KeyFor encodes a subject URI as a KV key. IRIs contain characters KV
// keys do not allow, so the key is the unpadded URL-safe base64 of the URI.
func KeyFor(uri rdfmodel.URIRefNode) string {
	return base64.RawURLEncoding.EncodeToString([]byte(uri))
}

// URIForKey reverses KeyFor.
func URIForKey(key string) (rdfmodel.URIRefNode, error) {
	raw, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return rdfmodel.URIRefNode(raw), nil
}

// Save stores v under its subject, replacing any previous revision.
func (s *KVStore) Save(ctx context.Context, v any) (uri rdfmodel.URIRefNode, err error) {
	defer func(start time.Time) { s.settings.metrics.observe(backendKV, "save", start, err) }(time.Now())

	uri, data, err := encodeModel(v, s.settings.baseIRI)
	if err != nil {
		return "", err
	}
	if _, err = s.kv.Put(ctx, KeyFor(uri), data); err != nil {
		return "", fmt.Errorf("store model: %w", err)
	}
	s.settings.logger.Debug("Saved model", "uri", uri, "bytes", len(data))
	return uri, nil
}

// Load populates out from the document stored under uri.
func (s *KVStore) Load(ctx context.Context, uri rdfmodel.URIRefNode, out any) (err error) {
	defer func(start time.Time) { s.settings.metrics.observe(backendKV, "load", start, err) }(time.Now())

	entry, err := s.kv.Get(ctx, KeyFor(uri))
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return fmt.Errorf("get model: %w", err)
	}
	return decodeModel(entry.Value(), uri, out)
}

// Delete removes the document stored under uri.
func (s *KVStore) Delete(ctx context.Context, uri rdfmodel.URIRefNode) (err error) {
	defer func(start time.Time) { s.settings.metrics.observe(backendKV, "delete", start, err) }(time.Now())

	if _, err = s.kv.Get(ctx, KeyFor(uri)); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return fmt.Errorf("get model: %w", err)
	}
	if err = s.kv.Delete(ctx, KeyFor(uri)); err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	return nil
}

// List returns the stored subject URIs in sorted order.
func (s *KVStore) List(ctx context.Context) (uris []rdfmodel.URIRefNode, err error) {
	defer func(start time.Time) { s.settings.metrics.observe(backendKV, "list", start, err) }(time.Now())

	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list model keys: %w", err)
	}

	uris = make([]rdfmodel.URIRefNode, 0, len(keys))
	for _, key := range keys {
		uri, err := URIForKey(key)
		if err != nil {
			s.settings.logger.Warn("Skipping foreign key in models bucket", "key", key)
			continue
		}
		uris = append(uris, uri)
	}
	sortURIs(uris)
	return uris, nil
}

// Close is a no-op; the connection belongs to the caller.
func (s *KVStore) Close() error { return nil }

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || (err != nil && strings.Contains(err.Error(), "key not found"))
}
