package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/columnwatch/internal/entitylink"
	"github.com/alexanderjulianmartinez/columnwatch/internal/params"
)

const (
	defaultQueryTimeout = 30 * time.Second
	defaultConcurrency  = 1
	defaultLogLevel     = "info"

	OutputStdout = "stdout"
	OutputKafka  = "kafka"
)

type Config struct {
	Source          SourceConfig  `yaml:"source"`
	Output          OutputConfig  `yaml:"output"`
	Log             LogConfig     `yaml:"log"`
	Concurrency     int           `yaml:"concurrency"`
	FailOnUnhealthy bool          `yaml:"failOnUnhealthy"`
	Tables          []TableConfig `yaml:"tables"`
}

type SourceConfig struct {
	Type         string        `yaml:"type"`
	DSN          string        `yaml:"dsn"`
	Schema       string        `yaml:"schema"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`
	MaxOpenConns int           `yaml:"maxOpenConns"`
}

type OutputConfig struct {
	Type    string   `yaml:"type"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TableConfig struct {
	Name   string        `yaml:"name"`
	Checks []CheckConfig `yaml:"checks"`
}

type CheckConfig struct {
	Name       string            `yaml:"name"`
	EntityLink string            `yaml:"entityLink"`
	Type       string            `yaml:"type"`
	Parameters params.Parameters `yaml:"parameterValues"`
}

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
	return Parse(data)
}

// Parse decodes and validates a YAML document, filling in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.QueryTimeout == 0 {
		c.Source.QueryTimeout = defaultQueryTimeout
	}
	if c.Output.Type == "" {
		c.Output.Type = OutputStdout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Concurrency == 0 {
		c.Concurrency = defaultConcurrency
	}
	// The MySQL schema defaults to the database named in the DSN.
	if c.Source.Type == "mysql" && c.Source.Schema == "" && c.Source.DSN != "" {
		if dsn, err := mysql.ParseDSN(c.Source.DSN); err == nil {
			c.Source.Schema = dsn.DBName
		}
	}
}

func (c *Config) validate() error {
	switch c.Source.Type {
	case "mysql", "postgres", "sqlite":
	default:
		return errors.New("source.type must be one of mysql, postgres, sqlite")
	}
	if c.Source.DSN == "" {
		return errors.New("source.dsn is required")
	}
	if c.Source.Type == "mysql" {
		if _, err := mysql.ParseDSN(c.Source.DSN); err != nil {
			return fmt.Errorf("source.dsn: %w", err)
		}
		if c.Source.Schema == "" {
			return errors.New("source.schema is required")
		}
	}
	if c.Source.QueryTimeout < 0 {
		return errors.New("source.queryTimeout must not be negative")
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not supported", c.Log.Level)
	}

	switch c.Output.Type {
	case OutputStdout:
	case OutputKafka:
		if len(c.Output.Brokers) == 0 {
			return errors.New("output.brokers is required for kafka output")
		}
		if c.Output.Topic == "" {
			return errors.New("output.topic is required for kafka output")
		}
	default:
		return fmt.Errorf("output.type %q is not supported", c.Output.Type)
	}

	if len(c.Tables) == 0 {
		return errors.New("at least one table is required")
	}
	for _, table := range c.Tables {
		if table.Name == "" {
			return errors.New("table.name is required")
		}
		if len(table.Checks) == 0 {
			return fmt.Errorf("table %s must define at least one check", table.Name)
		}
		seen := map[string]bool{}
		for _, check := range table.Checks {
			if err := check.validate(table.Name); err != nil {
				return err
			}
			if seen[check.Name] {
				return fmt.Errorf("table %s: duplicate check name %s", table.Name, check.Name)
			}
			seen[check.Name] = true
		}
	}
	return nil
}

func (c CheckConfig) validate(table string) error {
	if c.Name == "" {
		return fmt.Errorf("table %s: check.name is required", table)
	}
	if c.Type == "" {
		return fmt.Errorf("check %s: type is required", c.Name)
	}
	if entitylink.ColumnName(c.EntityLink) == "" {
		return fmt.Errorf("check %s: entityLink must name a column", c.Name)
	}
	base := table
	if idx := strings.LastIndex(table, "."); idx >= 0 {
		base = table[idx+1:]
	}
	if linked := entitylink.Table(c.EntityLink); linked != "" && linked != base {
		return fmt.Errorf("check %s: entityLink points at table %s, not %s", c.Name, linked, table)
	}
	names := map[string]bool{}
	for _, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("check %s: parameter name is required", c.Name)
		}
		if names[p.Name] {
			return fmt.Errorf("check %s: duplicate parameter %s", c.Name, p.Name)
		}
		names[p.Name] = true
	}
	return nil
}
