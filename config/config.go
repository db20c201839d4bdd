// Package config loads settings for the jatti binaries from defaults, an
// optional YAML file, an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oarkflow/jatti"
	"github.com/oarkflow/jatti/utils"
)

const (
	DefaultFile   = "jatti.yml"
	DefaultDotenv = ".env"
)

type Config struct {
	Addr           string  `yaml:"addr"`
	TimeoutSec     float64 `yaml:"timeout_sec"`
	MaxOutputBytes int     `yaml:"max_output_bytes"`
	MaxCodeBytes   int     `yaml:"max_code_bytes"`
	RateWindowSec  int     `yaml:"rate_window_sec"`
	RateMaxReq     int     `yaml:"rate_max_req"`
	APIKey         string  `yaml:"api_key"`
	MaxRecursion   int     `yaml:"max_recursion"`
	Debug          bool    `yaml:"debug"`
	LogLevel       string  `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Addr:           ":8787",
		TimeoutSec:     2.5,
		MaxOutputBytes: 200000,
		MaxCodeBytes:   200000,
		RateWindowSec:  10,
		RateMaxReq:     30,
		MaxRecursion:   jatti.DefaultMaxRecursion,
		LogLevel:       "info",
	}
}

// Load builds the configuration. An empty path means DefaultFile, which may
// be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	file, required := path, true
	if file == "" {
		file, required = DefaultFile, false
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", file, err)
		}
	case required || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("failed to read config %s: %w", file, err)
	}
	if err := utils.LoadDotenv(DefaultDotenv); err != nil {
		return cfg, fmt.Errorf("failed to load %s: %w", DefaultDotenv, err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Addr = utils.Getenv("JATTI_ADDR", c.Addr)
	c.TimeoutSec = utils.GetenvFloat("JATTI_TIMEOUT_SEC", c.TimeoutSec)
	c.MaxOutputBytes = utils.GetenvInt("JATTI_MAX_OUTPUT_BYTES", c.MaxOutputBytes)
	c.MaxCodeBytes = utils.GetenvInt("JATTI_MAX_CODE_BYTES", c.MaxCodeBytes)
	c.RateWindowSec = utils.GetenvInt("JATTI_RATE_WINDOW_SEC", c.RateWindowSec)
	c.RateMaxReq = utils.GetenvInt("JATTI_RATE_MAX_REQ", c.RateMaxReq)
	c.APIKey = utils.Getenv("JATTI_API_KEY", c.APIKey)
	c.MaxRecursion = utils.GetenvInt("JATTI_MAX_RECURSION", c.MaxRecursion)
	c.Debug = utils.GetenvBool("JATTI_DEBUG", c.Debug)
	c.LogLevel = utils.Getenv("JATTI_LOG_LEVEL", c.LogLevel)
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	errs := &jatti.MultiError{}
	if strings.TrimSpace(c.Addr) == "" {
		errs.Add(&jatti.ValidationError{Field: "addr", Value: c.Addr, Message: "must not be empty"})
	}
	if c.TimeoutSec <= 0 {
		errs.Add(&jatti.ValidationError{Field: "timeout_sec", Value: c.TimeoutSec, Message: "must be positive"})
	}
	positive := []struct {
		field string
		value int
	}{
		{"max_output_bytes", c.MaxOutputBytes},
		{"max_code_bytes", c.MaxCodeBytes},
		{"rate_window_sec", c.RateWindowSec},
		{"rate_max_req", c.RateMaxReq},
		{"max_recursion", c.MaxRecursion},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs.Add(&jatti.ValidationError{Field: p.field, Value: p.value, Message: "must be positive"})
		}
	}
	if !logLevels[strings.ToLower(c.LogLevel)] {
		errs.Add(&jatti.ValidationError{Field: "log_level", Value: c.LogLevel, Message: "unknown level"})
	}
	return errs.ErrorOrNil()
}

func (c Config) Timeout() time.Duration {
	return utils.Seconds(c.TimeoutSec)
}

func (c Config) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSec) * time.Second
}
