package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semstreams/natsclient"
)

// GraphIngestSubject is the subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// DefaultSource tags triples published by semrdf.
const DefaultSource = "semrdf.publish"

// EntityIngestMessage is the message format for graph ingestion.
// Matches the format used by semstreams components.
type EntityIngestMessage = EntityPayload

// Publisher publishes graphs to the knowledge graph, one message per subject.
type Publisher struct {
	nc      *natsclient.Client
	subject string
	source  string
	logger  *slog.Logger
	now     func() time.Time
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithSubject overrides the ingestion subject.
func WithSubject(subject string) PublisherOption {
	return func(p *Publisher) {
		if subject != "" {
			p.subject = subject
		}
	}
}

// WithSource sets the source recorded on every published triple.
func WithSource(source string) PublisherOption {
	return func(p *Publisher) {
		if source != "" {
			p.source = source
		}
	}
}

// WithLogger sets the publisher logger.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher creates a publisher. A nil client yields a publisher that
// skips publishing, so callers can run without NATS.
func NewPublisher(nc *natsclient.Client, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		nc:      nc,
		subject: GraphIngestSubject,
		source:  DefaultSource,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Messages groups the graph by subject into ingestion messages, ordered
// by subject.
func (p *Publisher) Messages(g *Graph) []*EntityIngestMessage {
	now := p.now()
	var (
		msgs    []*EntityIngestMessage
		current *EntityIngestMessage
		last    Term
	)
	for _, t := range g.Triples() {
		if current == nil || t.Subject != last {
			current = &EntityIngestMessage{
				EntityID_: wireTerm(t.Subject),
				UpdatedAt: now,
			}
			msgs = append(msgs, current)
			last = t.Subject
		}
		current.TripleData = append(current.TripleData,
			ToMessageTriples([]Triple{t}, p.source, now)...)
	}
	return msgs
}

// PublishGraph publishes every subject of g and returns how many entity
// messages were sent.
func (p *Publisher) PublishGraph(ctx context.Context, g *Graph) (int, error) {
	if p.nc == nil {
		return 0, nil // Skip publishing if no NATS client (graceful degradation)
	}

	sent := 0
	for _, msg := range p.Messages(g) {
		if err := msg.Validate(); err != nil {
			return sent, fmt.Errorf("invalid entity %s: %w", msg.EntityID_, err)
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return sent, fmt.Errorf("marshal entity %s: %w", msg.EntityID_, err)
		}
		if err := p.nc.PublishToStream(ctx, p.subject, data); err != nil {
			return sent, fmt.Errorf("publish entity %s: %w", msg.EntityID_, err)
		}
		sent++
	}

	p.logger.Debug("Published graph",
		"subject", p.subject,
		"entities", sent,
		"triples", g.Len())
	return sent, nil
}
