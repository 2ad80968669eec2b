package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/c360studio/semrdf/config"
	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/spf13/cobra"
)

func publishCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish <file|glob>...",
		Short: "Publish N-Triples documents to the knowledge graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}

			g := graph.New()
			for _, file := range files {
				fg, err := parseFile(file)
				if err != nil {
					return err
				}
				g.Merge(fg)
			}

			opts := []graph.PublisherOption{
				graph.WithSubject(a.cfg.NATS.Subject),
				graph.WithSource(a.cfg.NATS.Source),
				graph.WithLogger(a.logger),
			}

			if dryRun {
				msgs := graph.NewPublisher(nil, opts...).Messages(g)
				for _, m := range msgs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d triples\n", m.EntityID(), len(m.Triples()))
				}
				return nil
			}

			ctx := commandContext(cmd)
			nc, err := connectToNATS(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer nc.Close(ctx)

			sent, err := graph.NewPublisher(nc, opts...).PublishGraph(ctx, g)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d entities (%d triples)\n", sent, g.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the entity messages instead of publishing")
	return cmd
}

func connectToNATS(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*natsclient.Client, error) {
	natsURL := "nats://localhost:4222"

	// Environment variable override takes precedence
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		natsURL = envURL
	} else if cfg.NATS.URL != "" {
		natsURL = cfg.NATS.URL
	}

	logger.Info("Connecting to NATS", "url", natsURL)

	client, err := natsclient.NewClient(natsURL,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(5),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, natsURL)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, natsURL)
	}

	logger.Debug("Connected to NATS", "url", natsURL)
	return client, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Set nats.url in semrdf.yaml or the NATS_URL environment variable to point
to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
