// Package main provides the semrdf binary entry point.
// semrdf converts RDF documents between formats and publishes them to the
// semstreams knowledge graph.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/c360studio/semrdf"
	"github.com/c360studio/semrdf/config"
	"github.com/c360studio/semrdf/export"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semrdf"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by subcommands once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	logger *slog.Logger
	loader *config.Loader
	cfg    *config.Config
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Map Go models and RDF documents",
		Long: `semrdf converts RDF documents between Turtle, N-Triples and JSON-LD
and publishes them as entities to the semstreams knowledge graph.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		versionCmd(),
		exportsCmd(),
		formatsCmd(),
		convertCmd(a),
		publishCmd(a),
		storeCmd(a),
		configCmd(a),
	)
	return cmd
}

// setup configures logging and loads the layered configuration.
func (a *app) setup(stderr io.Writer) error {
	level := slog.LevelInfo
	switch strings.ToLower(a.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	a.loader = config.NewLoader(a.logger)
	cfg, err := a.loader.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func exportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exports",
		Short: "List the public names of the semrdf package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range semrdf.PublicNames() {
				t, err := semrdf.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", name, t)
			}
			return nil
		},
	}
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported RDF formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range export.Formats() {
				info, _ := export.GetFormatInfo(f)
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-8s %-22s %s\n", f, info.Extension, info.MIMEType, info.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			for _, p := range export.ProfileNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "profile %-8s %s\n", p, export.GetProfileConfig(p).Description)
			}
		},
	}
}
