package main

import (
	"context"
	"fmt"

	"github.com/c360studio/semrdf/config"
	"github.com/c360studio/semrdf/rdfmodel"
	"github.com/c360studio/semrdf/storage"
	"github.com/spf13/cobra"
)

func storeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect the configured model store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored model URIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, closeFn, err := openStore(ctx, a)
			if err != nil {
				return err
			}
			defer closeFn()

			uris, err := s.List(ctx)
			if err != nil {
				return err
			}
			for _, uri := range uris {
				fmt.Fprintln(cmd.OutOrStdout(), uri)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <uri>...",
		Short: "Delete stored models",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, closeFn, err := openStore(ctx, a)
			if err != nil {
				return err
			}
			defer closeFn()

			for _, arg := range args {
				uri, err := rdfmodel.NewURIRefNode(arg)
				if err != nil {
					return err
				}
				if err := s.Delete(ctx, uri); err != nil {
					return err
				}
				a.logger.Info("Deleted model", "uri", uri)
			}
			return nil
		},
	})

	return cmd
}

// openStore connects the backend selected by storage.backend.
func openStore(ctx context.Context, a *app) (storage.Store, func(), error) {
	opts := []storage.Option{
		storage.WithBaseIRI(a.cfg.Namespace.Base),
		storage.WithLogger(a.logger),
	}

	switch a.cfg.Storage.Backend {
	case config.BackendRedis:
		r := a.cfg.Redis
		s := storage.NewRedisStore(r.Addr, r.Password, r.DB,
			append(opts, storage.WithPrefix(r.Prefix), storage.WithTTL(r.TTL))...)
		return s, func() { _ = s.Close() }, nil

	case config.BackendNATS:
		nc, err := connectToNATS(ctx, a.cfg, a.logger)
		if err != nil {
			return nil, nil, err
		}
		js, err := nc.JetStream()
		if err != nil {
			_ = nc.Close(ctx)
			return nil, nil, fmt.Errorf("jetstream: %w", err)
		}
		s, err := storage.NewKVStore(ctx, js, append(opts, storage.WithBucket(a.cfg.Storage.Bucket))...)
		if err != nil {
			_ = nc.Close(ctx)
			return nil, nil, err
		}
		return s, func() { _ = nc.Close(ctx) }, nil

	default:
		return nil, nil, fmt.Errorf("no model store configured (set storage.backend to nats or redis)")
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
