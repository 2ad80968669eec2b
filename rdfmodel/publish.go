package rdfmodel

import (
	"context"
	"fmt"

	"github.com/c360studio/semrdf/graph"
)

// GraphPublisher sends a graph to the knowledge graph.
// *graph.Publisher implements it.
type GraphPublisher interface {
	PublishGraph(ctx context.Context, g *graph.Graph) (int, error)
}

// Publish serializes models into one graph and publishes it.
// It returns the number of entity messages sent.
func Publish(ctx context.Context, pub GraphPublisher, models []any, opts ...Option) (int, error) {
	g := graph.New()
	for i, m := range models {
		if _, err := AddToGraph(g, m, opts...); err != nil {
			return 0, fmt.Errorf("model %d: %w", i, err)
		}
	}
	return pub.PublishGraph(ctx, g)
}
