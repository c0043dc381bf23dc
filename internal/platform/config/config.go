package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional on-disk configuration. Every field has a
// sensible default; an absent file is not an error.
type fileConfig struct {
	DataDir         string `yaml:"data_dir"`
	MotivatorBinary string `yaml:"motivator_binary"`
	Timer           struct {
		TickMS   int `yaml:"tick_ms"`
		MessageS int `yaml:"message_interval_s"`
		GraceS   int `yaml:"grace_period_s"`
	} `yaml:"timer"`
}

type Config struct {
	DataDir         string
	StatePath       string
	DBPath          string
	MotivatorBinary string

	TickInterval    time.Duration
	MessageInterval time.Duration
	GracePeriod     time.Duration
}

// New resolves the effective configuration. dataDir may be empty, in which
// case ~/.focuscraft is used. A config.yaml inside the data dir can override
// the motivator binary and the timer cadence (useful in development).
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".focuscraft")
	}

	cfg := Config{
		DataDir:         dataDir,
		StatePath:       filepath.Join(dataDir, "state.json"),
		DBPath:          filepath.Join(dataDir, "focuscraft.db"),
		TickInterval:    time.Second,
		MessageInterval: 30 * time.Second,
		GracePeriod:     5 * time.Second,
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config.yaml: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return Config{}, fmt.Errorf("decode config.yaml: %w", err)
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
		cfg.StatePath = filepath.Join(fc.DataDir, "state.json")
		cfg.DBPath = filepath.Join(fc.DataDir, "focuscraft.db")
	}
	cfg.MotivatorBinary = fc.MotivatorBinary
	if fc.Timer.TickMS > 0 {
		cfg.TickInterval = time.Duration(fc.Timer.TickMS) * time.Millisecond
	}
	if fc.Timer.MessageS > 0 {
		cfg.MessageInterval = time.Duration(fc.Timer.MessageS) * time.Second
	}
	if fc.Timer.GraceS > 0 {
		cfg.GracePeriod = time.Duration(fc.Timer.GraceS) * time.Second
	}
	return cfg, nil
}
