package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/pgcollect/internal/container"
	"github.com/alexanderjulianmartinez/pgcollect/internal/source/postgres"
)

// EnvDSN overrides the default connection descriptor.
const EnvDSN = "PGCOLLECT_DSN"

type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Container ContainerConfig `yaml:"container"`
	Output    OutputConfig    `yaml:"output"`
}

type SourceConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// ContainerConfig is left empty when PostgreSQL runs directly on the host.
type ContainerConfig struct {
	ID      string `yaml:"id"`
	Runtime string `yaml:"runtime"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

func Default() *Config {
	dsn := postgres.DefaultDSN
	if v := os.Getenv(EnvDSN); v != "" {
		dsn = v
	}
	return &Config{
		Source:    SourceConfig{Type: "postgres", DSN: dsn},
		Container: ContainerConfig{Runtime: container.DefaultRuntime},
		Output:    OutputConfig{Dir: "pgcollect-report"},
	}
}

// LoadConfig reads path on top of Default and validates the result.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Source.Type != "postgres" {
		return errors.New("source.type must be postgres")
	}
	if c.Source.DSN == "" {
		return errors.New("source.dsn is required")
	}
	switch c.Container.Runtime {
	case "docker", "podman":
	default:
		return fmt.Errorf("container.runtime must be docker or podman, got %q", c.Container.Runtime)
	}
	if c.Output.Dir == "" {
		return errors.New("output.dir is required")
	}
	return nil
}
