// Package config loads the abacus settings from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when no path is given.
const DefaultFile = "abacus.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ABACUS_"

// Config holds the settings shared by every command.
type Config struct {
	AngleMode    string     `mapstructure:"angle_mode" yaml:"angle_mode"`
	MaxInput     int        `mapstructure:"max_input" yaml:"max_input"`
	HistorySize  int        `mapstructure:"history_size" yaml:"history_size"`
	DisplayWidth int        `mapstructure:"display_width" yaml:"display_width"`
	MaxLineSize  int        `mapstructure:"max_line_size" yaml:"max_line_size"`
	LogLevel     string     `mapstructure:"log_level" yaml:"log_level"`
	HTTP         HTTPConfig `mapstructure:"http" yaml:"http"`
	MCP          MCPConfig  `mapstructure:"mcp" yaml:"mcp"`
}

// HTTPConfig configures `abacus serve`.
type HTTPConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// MCPConfig configures `abacus mcp`.
type MCPConfig struct {
	Transport string `mapstructure:"transport" yaml:"transport"`
	Port      int    `mapstructure:"port" yaml:"port"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		AngleMode:    string(domain.Degrees),
		MaxInput:     256,
		HistorySize:  10,
		DisplayWidth: 20,
		MaxLineSize:  64 * 1024,
		LogLevel:     "info",
		HTTP:         HTTPConfig{Port: 8080},
		MCP:          MCPConfig{Transport: "stdio", Port: 8081},
	}
}

// envKeys maps environment variables (without prefix) to config keys.
var envKeys = map[string][]string{
	"ANGLE_MODE":    {"angle_mode"},
	"MAX_INPUT":     {"max_input"},
	"HISTORY_SIZE":  {"history_size"},
	"DISPLAY_WIDTH": {"display_width"},
	"MAX_LINE_SIZE": {"max_line_size"},
	"LOG_LEVEL":     {"log_level"},
	"HTTP_PORT":     {"http", "port"},
	"MCP_TRANSPORT": {"mcp", "transport"},
	"MCP_PORT":      {"mcp", "port"},
}

// Load builds the configuration: defaults, then the YAML file at path, then
// ABACUS_* environment variables. An empty path means DefaultFile; a missing file
// is not an error.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFile
	}
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := decode(fromEnv(lookup), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw, nil
}

func fromEnv(lookup func(string) (string, bool)) map[string]any {
	raw := make(map[string]any)
	for name, path := range envKeys {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		node := raw
		for _, key := range path[:len(path)-1] {
			child, ok := node[key].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[key] = child
			}
			node = child
		}
		node[path[len(path)-1]] = v
	}
	return raw
}

// decode merges raw onto cfg. Strings are converted to numbers where needed.
func decode(raw map[string]any, cfg *Config) error {
	if len(raw) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := domain.ParseAngleMode(c.AngleMode); err != nil {
		return fmt.Errorf("angle_mode: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.MaxInput <= 0 {
		return fmt.Errorf("max_input must be positive, got %d", c.MaxInput)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history_size must be positive, got %d", c.HistorySize)
	}
	if c.DisplayWidth <= 0 {
		return fmt.Errorf("display_width must be positive, got %d", c.DisplayWidth)
	}
	if c.MaxLineSize <= 0 {
		return fmt.Errorf("max_line_size must be positive, got %d", c.MaxLineSize)
	}
	switch strings.ToLower(c.MCP.Transport) {
	case "stdio", "sse":
	default:
		return fmt.Errorf("mcp.transport must be stdio or sse, got %q", c.MCP.Transport)
	}
	return nil
}

// Mode returns the parsed angle mode. Call Validate first.
func (c *Config) Mode() domain.AngleMode {
	mode, err := domain.ParseAngleMode(c.AngleMode)
	if err != nil {
		return domain.Degrees
	}
	return mode
}
