package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at a project root.
const FileName = "centavo.yaml"

// Config represents the top-level centavo.yaml configuration.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Paths   PathsConfig   `yaml:"paths"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Git     GitConfig     `yaml:"git"`
}

// ProjectConfig identifies the project.
type ProjectConfig struct {
	Name string `yaml:"name"`
}

// PathsConfig locates the working files, relative to the project root.
type PathsConfig struct {
	Inbox string `yaml:"inbox"` // drop folder for .ofx exports
	Data  string `yaml:"data"`  // ledger directory
	Rules string `yaml:"rules"` // rule table file
}

// MirrorConfig controls the optional columnar ledger mirror.
type MirrorConfig struct {
	Parquet bool `yaml:"parquet"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a centavo.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(name string) *Config {
	return &Config{
		Project: ProjectConfig{Name: name},
		Paths: PathsConfig{
			Inbox: "inbox",
			Data:  "data/processed",
			Rules: "rules/rules.csv",
		},
		Mirror: MirrorConfig{Parquet: true},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Centavo",
			AuthorEmail: "ledger@centavo.dev",
		},
	}
}
