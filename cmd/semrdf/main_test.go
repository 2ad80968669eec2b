package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNT = `<http://example.org/ann> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://xmlns.com/foaf/0.1/Person> .
<http://example.org/ann> <http://xmlns.com/foaf/0.1/name> "Ann" .
<http://example.org/ann> <http://xmlns.com/foaf/0.1/knows> <http://example.org/bob> .
<http://example.org/bob> <http://xmlns.com/foaf/0.1/name> "Bob" .
`

// runCLI executes the root command with an isolated project config.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "semrdf.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("namespace:\n  prefixes:\n    ex: \"http://example.org/\"\n"), 0644))

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(sampleNT), 0644))
	return path
}

func TestExportsCommand(t *testing.T) {
	out, err := runCLI(t, "exports")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	for i, name := range []string{"RDFModel", "URIRefNode", "MapTo", "PropertyNotSetException"} {
		assert.True(t, strings.HasPrefix(lines[i], name), "line %d: %s", i, lines[i])
	}
	assert.Contains(t, lines[3], "*rdfmodel.PropertyNotSetError")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "semrdf version 0.1.0 (build: dev)\n", out)
}

func TestFormatsCommand(t *testing.T) {
	out, err := runCLI(t, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, "turtle")
	assert.Contains(t, out, ".nt")
	assert.Contains(t, out, "application/ld+json")
}

func TestConvertCommand_Stdout(t *testing.T) {
	file := writeSample(t, t.TempDir(), "people.nt")

	out, err := runCLI(t, "convert", "--to", "ttl", file)
	require.NoError(t, err)
	assert.Contains(t, out, "@prefix ex: <http://example.org/> .")
	assert.Contains(t, out, "ex:ann\n    a foaf:Person ;")
	assert.Contains(t, out, "foaf:knows ex:bob ;")
}

func TestConvertCommand_Profile(t *testing.T) {
	file := writeSample(t, t.TempDir(), "people.nt")

	out, err := runCLI(t, "convert", "--to", "nt", "--profile", "cco", file)
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(out, "\n"), "4 input triples plus 3 alignment types:\n%s", out)

	_, err = runCLI(t, "convert", "--profile", "dolce", file)
	assert.ErrorContains(t, err, "unknown export profile")
}

func TestConvertCommand_GlobToDirectory(t *testing.T) {
	src := t.TempDir()
	writeSample(t, src, "a.nt")
	writeSample(t, src, filepath.Join("nested", "b.nt"))
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := runCLI(t, "convert", "--to", "jsonld", "--out", outDir, filepath.Join(src, "**", "*.nt"))
	require.NoError(t, err)

	for _, name := range []string{"a.jsonld", "b.jsonld"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), `"@graph"`)
	}
}

func TestConvertCommand_DuplicateTargets(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "x"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "y"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "x", "d.nt"), []byte(`<http://a> <http://p> "first" .`+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "y", "d.nt"), []byte(`<http://a> <http://p> "second" .`+"\n"), 0644))
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := runCLI(t, "convert", "--to", "nt", "--out", outDir, filepath.Join(src, "**", "*.nt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would both be written to")

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when targets collide")
}

func TestConvertCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "convert", filepath.Join(dir, "*.nt"))
	assert.ErrorContains(t, err, "no files match pattern")

	bad := filepath.Join(dir, "bad.nt")
	require.NoError(t, os.WriteFile(bad, []byte("<http://a> <http://p>\n"), 0644))
	_, err = runCLI(t, "convert", bad)
	assert.ErrorContains(t, err, "bad.nt")

	_, err = runCLI(t, "convert", "--to", "rdfxml", writeSample(t, dir, "ok.nt"))
	assert.Error(t, err)
}

func TestPublishCommand_DryRun(t *testing.T) {
	file := writeSample(t, t.TempDir(), "people.nt")

	out, err := runCLI(t, "publish", "--dry-run", file)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/ann\t3 triples\nhttp://example.org/bob\t1 triples\n", out)
}

func TestStoreCommand_NoBackend(t *testing.T) {
	_, err := runCLI(t, "store", "list")
	assert.ErrorContains(t, err, "no model store configured")
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "format: turtle")
	assert.Contains(t, out, "backend: none")
	assert.Contains(t, out, "ex: http://example.org/")
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine to write to.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestConfigCommand_Watch(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "semrdf.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("export:\n  format: turtle\n"), 0644))

	var out syncBuffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", cfgPath, "--log-level", "error", "config", "--watch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "format: turtle")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(cfgPath, []byte("export:\n  format: jsonld\n"), 0644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "format: jsonld")
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "---")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("config --watch did not stop on cancel")
	}
}

func TestConfigCommand_WatchWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cmd := rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--log-level", "error", "config", "--watch"})
	assert.ErrorContains(t, cmd.Execute(), "no config file to watch")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  backend: sqlite\n"), 0644))

	cmd := rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", cfgPath, "exports"})
	assert.ErrorContains(t, cmd.Execute(), "load config")
}
