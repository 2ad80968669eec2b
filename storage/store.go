// Package storage persists mapped models as N-Triples documents in NATS KV
// or Redis.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/c360studio/semrdf/export"
	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/rdfmodel"
	vocab "github.com/c360studio/semrdf/vocabulary/semrdf"
)

// Store persists models keyed by their subject URI.
type Store interface {
	// Save serializes v, minting a subject when it has none, and returns
	// the subject it was stored under.
	Save(ctx context.Context, v any) (rdfmodel.URIRefNode, error)

	// Load populates out from the document stored under uri.
	Load(ctx context.Context, uri rdfmodel.URIRefNode, out any) error

	// Delete removes the document stored under uri.
	Delete(ctx context.Context, uri rdfmodel.URIRefNode) error

	// List returns the stored subject URIs.
	List(ctx context.Context) ([]rdfmodel.URIRefNode, error)

	Close() error
}

var (
	_ Store = (*KVStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// Option configures a store.
type Option func(*settings)

type settings struct {
	baseIRI string
	logger  *slog.Logger
	metrics *Metrics
	bucket  string
	prefix  string
	ttl     time.Duration
}

func defaultSettings() settings {
	return settings{
		baseIRI: vocab.EntityNamespace,
		logger:  slog.Default(),
		bucket:  DefaultBucket,
		prefix:  DefaultPrefix,
	}
}

// WithBaseIRI sets the namespace for subjects minted on Save. An empty
// base mints blank nodes.
func WithBaseIRI(baseIRI string) Option {
	return func(s *settings) {
		s.baseIRI = baseIRI
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records operations on m.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithBucket sets the KV bucket name.
func WithBucket(bucket string) Option {
	return func(s *settings) {
		s.bucket = bucket
	}
}

// WithPrefix sets the Redis key prefix.
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// WithTTL expires Redis documents after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.ttl = ttl
	}
}

// encodeModel serializes v and every model it references as N-Triples.
func encodeModel(v any, baseIRI string) (rdfmodel.URIRefNode, []byte, error) {
	var opts []rdfmodel.Option
	if baseIRI != "" {
		opts = append(opts, rdfmodel.WithBaseIRI(baseIRI))
	}

	g := graph.New()
	subject, err := rdfmodel.AddToGraph(g, v, opts...)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := export.NewSerializer().Write(&buf, g, export.FormatNTriples); err != nil {
		return "", nil, fmt.Errorf("serialize model: %w", err)
	}
	return subject, buf.Bytes(), nil
}

// decodeModel loads out from an N-Triples document.
func decodeModel(data []byte, uri rdfmodel.URIRefNode, out any) error {
	g, err := export.ParseNTriples(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse stored model: %w", err)
	}
	return rdfmodel.FromGraph(g, uri, out)
}

func sortURIs(uris []rdfmodel.URIRefNode) {
	sort.Slice(uris, func(i, j int) bool { return uris[i] < uris[j] })
}
