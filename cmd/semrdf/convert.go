package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/semrdf/export"
	"github.com/c360studio/semrdf/graph"
	"github.com/spf13/cobra"
)

func convertCmd(a *app) *cobra.Command {
	var (
		to      string
		outDir  string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "convert <file|glob>...",
		Short: "Convert N-Triples documents to another RDF format",
		Long: `Convert parses N-Triples files and writes them in the requested format.
Arguments may be doublestar globs such as data/**/*.nt. Without --out the
result is written to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				to = a.cfg.Export.Format
			}
			format, err := export.ParseFormat(to)
			if err != nil {
				return err
			}

			if profile == "" {
				profile = a.cfg.Export.Profile
			}
			p, err := export.ParseProfile(profile)
			if err != nil {
				return err
			}

			files, err := expandPatterns(args)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := checkTargets(files, format, outDir); err != nil {
					return err
				}
			}

			s := export.NewSerializer(
				export.WithPrefixes(a.cfg.Prefixes()),
				export.WithProfile(p),
			)
			for _, file := range files {
				g, err := parseFile(file)
				if err != nil {
					return err
				}

				if outDir == "" {
					if err := s.Write(cmd.OutOrStdout(), g, format); err != nil {
						return fmt.Errorf("write %s: %w", file, err)
					}
					continue
				}

				target, err := writeConverted(s, g, format, file, outDir)
				if err != nil {
					return err
				}
				a.logger.Info("Converted", "source", file, "target", target, "triples", g.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Output format (defaults to export.format from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	cmd.Flags().StringVar(&profile, "profile", "", "Alignment profile (none, minimal, bfo, cco)")
	return cmd
}

// expandPatterns resolves globs to a sorted, de-duplicated list of files.
// Plain paths must exist; globs must match at least one file.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches := []string{pattern}
		if strings.ContainsAny(pattern, "*?[{") {
			var err error
			matches, err = doublestar.FilepathGlob(pattern)
			if err != nil {
				return nil, fmt.Errorf("glob error: %w", err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match pattern: %s", pattern)
			}
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if info.IsDir() || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func parseFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := export.ParseNTriples(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// targetPath maps a source file to its output file in outDir.
func targetPath(source string, format export.Format, outDir string) string {
	info, _ := export.GetFormatInfo(format)
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outDir, base+info.Extension)
}

// checkTargets fails when two sources would be written to the same file.
func checkTargets(files []string, format export.Format, outDir string) error {
	sources := make(map[string]string, len(files))
	for _, file := range files {
		target := targetPath(file, format, outDir)
		if prev, ok := sources[target]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, file, target)
		}
		sources[target] = file
	}
	return nil
}

func writeConverted(s *export.Serializer, g *graph.Graph, format export.Format, source, outDir string) (string, error) {
	target := targetPath(source, format, outDir)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	if err := s.Write(f, g, format); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, f.Close()
}
