// Package config provides configuration loading and management for semrdf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/semrdf/export"
	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/c360studio/semrdf/vocabulary/semrdf"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendNone  = "none"
	BackendNATS  = "nats"
	BackendRedis = "redis"
)

// Config represents the complete semrdf configuration
type Config struct {
	Namespace NamespaceConfig `yaml:"namespace"`
	Export    ExportConfig    `yaml:"export"`
	NATS      NATSConfig      `yaml:"nats"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
}

// NamespaceConfig configures IRI minting and prefixes
type NamespaceConfig struct {
	// Base is the namespace for minted model subjects
	Base string `yaml:"base"`
	// Prefixes adds CURIE prefixes to the defaults
	Prefixes map[string]string `yaml:"prefixes"`
}

// ExportConfig configures serialization
type ExportConfig struct {
	// Format is the default output format (turtle, ntriples, jsonld)
	Format string `yaml:"format"`
	// Profile adds upper-ontology type assertions (none, minimal, bfo, cco)
	Profile string `yaml:"profile"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// Subject is the graph ingest subject
	Subject string `yaml:"subject"`
	// Source is recorded on published triples
	Source string `yaml:"source"`
}

// RedisConfig configures the Redis model store
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// Prefix is prepended to every key
	Prefix string `yaml:"prefix"`
	// TTL expires stored models (0 = never)
	TTL time.Duration `yaml:"ttl"`
}

// StorageConfig selects the model store
type StorageConfig struct {
	// Backend is one of none, nats, redis
	Backend string `yaml:"backend"`
	// Bucket is the NATS KV bucket
	Bucket string `yaml:"bucket"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Namespace: NamespaceConfig{
			Base: semrdf.EntityNamespace,
		},
		Export: ExportConfig{
			Format:  string(export.FormatTurtle),
			Profile: string(export.ProfileNone),
		},
		NATS: NATSConfig{
			Subject: graph.GraphIngestSubject,
			Source:  graph.DefaultSource,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "semrdf:model:",
		},
		Storage: StorageConfig{
			Backend: BackendNone,
			Bucket:  "SEMRDF_MODELS",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error
	if c.Namespace.Base != "" && !rdf.IsAbsolute(c.Namespace.Base) {
		errs = append(errs, fmt.Errorf("namespace.base must be an absolute IRI, got %q", c.Namespace.Base))
	}
	for prefix, ns := range c.Namespace.Prefixes {
		if prefix == "" || !rdf.IsAbsolute(ns) {
			errs = append(errs, fmt.Errorf("namespace.prefixes: invalid mapping %q -> %q", prefix, ns))
		}
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		errs = append(errs, fmt.Errorf("export.format: %w", err))
	}
	if _, err := export.ParseProfile(c.Export.Profile); err != nil {
		errs = append(errs, fmt.Errorf("export.profile: %w", err))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must not be negative"))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must not be negative"))
	}

	switch c.Storage.Backend {
	case BackendNone, "":
	case BackendNATS:
		if c.NATS.URL == "" {
			errs = append(errs, fmt.Errorf("storage.backend nats requires nats.url"))
		}
		if c.Storage.Bucket == "" {
			errs = append(errs, fmt.Errorf("storage.bucket is required for the nats backend"))
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("storage.backend redis requires redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be one of none, nats, redis, got %q", c.Storage.Backend))
	}
	return errors.Join(errs...)
}

// Prefixes returns the default prefixes overlaid with configured ones.
func (c *Config) Prefixes() map[string]string {
	out := rdf.DefaultPrefixes()
	for prefix, ns := range c.Namespace.Prefixes {
		out[prefix] = ns
	}
	return out
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Namespace
	if other.Namespace.Base != "" {
		c.Namespace.Base = other.Namespace.Base
	}
	if len(other.Namespace.Prefixes) > 0 {
		merged := make(map[string]string, len(c.Namespace.Prefixes)+len(other.Namespace.Prefixes))
		for k, v := range c.Namespace.Prefixes {
			merged[k] = v
		}
		for k, v := range other.Namespace.Prefixes {
			merged[k] = v
		}
		c.Namespace.Prefixes = merged
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.Profile != "" {
		c.Export.Profile = other.Export.Profile
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.Source != "" {
		c.NATS.Source = other.NATS.Source
	}

	// Redis
	if other.Redis.Addr != "" {
		c.Redis.Addr = other.Redis.Addr
	}
	if other.Redis.Password != "" {
		c.Redis.Password = other.Redis.Password
	}
	if other.Redis.DB != 0 {
		c.Redis.DB = other.Redis.DB
	}
	if other.Redis.Prefix != "" {
		c.Redis.Prefix = other.Redis.Prefix
	}
	if other.Redis.TTL != 0 {
		c.Redis.TTL = other.Redis.TTL
	}

	// Storage
	if other.Storage.Backend != "" {
		c.Storage.Backend = other.Storage.Backend
	}
	if other.Storage.Bucket != "" {
		c.Storage.Bucket = other.Storage.Bucket
	}
}
