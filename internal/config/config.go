// Package config loads typeready.toml, the settings shared by the type
// engine and the command line tools.
package config

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/pelletier/go-toml"
	"github.com/rs/zerolog"

	"github.com/you-not-fish/typeready/internal/heap"
	"github.com/you-not-fish/typeready/internal/logging"
	"github.com/you-not-fish/typeready/internal/typeready"
)

// FileName is the configuration file looked up by the tools.
const FileName = "typeready.toml"

// Environment variables overriding the engine section.
const (
	EnvTrace     = "TYPEREADY_TRACE"
	EnvVerify    = "TYPEREADY_VERIFY"
	EnvHeapLimit = "TYPEREADY_HEAP_LIMIT"
)

// Config is the validated configuration.
type Config struct {
	Engine Engine
	Log    Log
}

// Engine configures typeready.Engine.
type Engine struct {
	Verify    bool
	Trace     string // readiness step to trace, "*" for all
	HeapLimit int64  // bytes, 0 for unlimited
}

// Log configures the console logger.
type Log struct {
	Level     string
	NoColor   bool
	Timestamp bool
}

// tomlFile is the configuration file as it is encoded in TOML. Pointer
// fields distinguish absent keys from zero values.
type tomlFile struct {
	Engine *tomlEngine `toml:"engine"`
	Log    *tomlLog    `toml:"log"`
}

type tomlEngine struct {
	Verify    *bool   `toml:"verify"`
	Trace     *string `toml:"trace"`
	HeapLimit *int64  `toml:"heap_limit"`
}

type tomlLog struct {
	Level     *string `toml:"level"`
	NoColor   *bool   `toml:"no_color"`
	Timestamp *bool   `toml:"timestamp"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: Engine{Verify: true},
		Log:    Log{Level: "info", Timestamp: true},
	}
}

// Load reads and validates the configuration file at path. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		return cfg, cfg.applyEnv()
	}
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

// Parse decodes a configuration document, applies defaults and environment
// overrides and validates the result.
func Parse(buf []byte) (*Config, error) {
	tf := &tomlFile{}
	if err := toml.NewDecoder(bytes.NewReader(buf)).Strict(true).Decode(tf); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if e := tf.Engine; e != nil {
		setIf(&cfg.Engine.Verify, e.Verify)
		setIf(&cfg.Engine.Trace, e.Trace)
		setIf(&cfg.Engine.HeapLimit, e.HeapLimit)
	}
	if l := tf.Log; l != nil {
		setIf(&cfg.Log.Level, l.Level)
		setIf(&cfg.Log.NoColor, l.NoColor)
		setIf(&cfg.Log.Timestamp, l.Timestamp)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvTrace); ok {
		c.Engine.Trace = v
	}
	if v, ok := os.LookupEnv(EnvVerify); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvVerify, err)
		}
		c.Engine.Verify = b
	}
	if v, ok := os.LookupEnv(EnvHeapLimit); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvHeapLimit, err)
		}
		c.Engine.HeapLimit = n
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.Engine.HeapLimit < 0 {
		return fmt.Errorf("config: heap_limit must not be negative, got %d", c.Engine.HeapLimit)
	}
	if t := c.Engine.Trace; t != "" && t != "*" && !slices.Contains(typeready.StepNames(), t) {
		return fmt.Errorf("config: trace names unknown readiness step %q", t)
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}

// LogConfig returns the logger settings, with the TYPEREADY_LOG_* variables
// applied on top.
func (c *Config) LogConfig() logging.Config {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	cfg := logging.Config{Level: lvl, NoColor: c.Log.NoColor, Timestamp: c.Log.Timestamp}
	logging.ApplyEnv(&cfg)
	return cfg
}

// EngineConfig returns the engine settings that logs to logger.
func (c *Config) EngineConfig(logger *zerolog.Logger) typeready.Config {
	return typeready.Config{
		Heap:   heap.New(c.Engine.HeapLimit),
		Logger: logger,
		Trace:  c.Engine.Trace,
		Verify: c.Engine.Verify,
	}
}
