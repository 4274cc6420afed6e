// Package config loads the service configuration from yaml with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Printing PrintingConfig `yaml:"printing"`
	Company  CompanyConfig  `yaml:"company"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type PrintingConfig struct {
	// SendTimeout bounds one connect+write cycle to a printer.
	SendTimeout time.Duration `yaml:"send_timeout"`
	// ProbeTimeout bounds a connectivity test.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	// SettleDelay holds the connection open after the write so the printer
	// can drain its buffer.
	SettleDelay time.Duration `yaml:"settle_delay"`
	MaxCopies   int           `yaml:"max_copies"`
}

// CompanyConfig is the header block printed on the fixed label profiles.
type CompanyConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "./data/paleta.db",
		},
		Printing: PrintingConfig{
			SendTimeout:  10 * time.Second,
			ProbeTimeout: 5 * time.Second,
			SettleDelay:  500 * time.Millisecond,
			MaxCopies:    100,
		},
		Company: CompanyConfig{
			Name: "Paleta Produce",
		},
	}
}

// Load reads configPath if it exists and applies PALETA_* environment
// overrides on top. A missing file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PALETA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PALETA_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PALETA_COMPANY_NAME"); v != "" {
		cfg.Company.Name = v
	}
	if v := os.Getenv("PALETA_COMPANY_ADDRESS"); v != "" {
		cfg.Company.Address = v
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Printing.SendTimeout <= 0 {
		return fmt.Errorf("printing send timeout must be positive")
	}
	if c.Printing.ProbeTimeout <= 0 {
		return fmt.Errorf("printing probe timeout must be positive")
	}
	if c.Printing.SettleDelay < 0 {
		return fmt.Errorf("printing settle delay must be non-negative")
	}
	if c.Printing.MaxCopies < 1 {
		return fmt.Errorf("printing max copies must be at least 1")
	}
	return nil
}
