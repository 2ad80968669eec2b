package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/c360studio/semrdf/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func configCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the user config,
the project config and --config. With --watch the command keeps running
and prints the configuration again each time the file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !watch {
				return printConfig(out, a.cfg)
			}

			path := a.configPath
			if path == "" {
				path = a.loader.ProjectConfigPath()
			}
			if path == "" {
				return fmt.Errorf("no config file to watch (pass --config or create %s)", config.ProjectConfigFile)
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var mu sync.Mutex
			err := a.loader.Watch(ctx, path, func(c *config.Config) {
				mu.Lock()
				defer mu.Unlock()
				a.cfg = c
				fmt.Fprintln(out, "---")
				if err := printConfig(out, c); err != nil {
					a.logger.Error("Print config", "error", err)
				}
			})
			if err != nil {
				return err
			}

			mu.Lock()
			err = printConfig(out, a.cfg)
			mu.Unlock()
			if err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and print the configuration on every change")
	return cmd
}

func printConfig(w io.Writer, c *config.Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
