package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/notion"
	"gopkg.in/yaml.v3"
)

// Config is the user configuration file. Command-line flags override it.
type Config struct {
	Settings lessondump.Settings `yaml:"settings"`

	// Browser.
	Driver     string `yaml:"driver"`
	ControlURL string `yaml:"controlURL"`
	Headless   bool   `yaml:"headless"`

	// OutDir receives exported files.
	OutDir string `yaml:"outDir"`

	Notion struct {
		Token     string            `yaml:"token"`
		Databases []notion.Database `yaml:"databases"`
	} `yaml:"notion"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Settings: lessondump.DefaultSettings(),
		Driver:   driverRod,
		OutDir:   ".",
	}
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// is only an error when required is set. NOTION_TOKEN overrides the token.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, lessondump.Errorf(lessondump.EINVALID, "parse config %s: %v", path, err)
		}
	}

	if token := os.Getenv("NOTION_TOKEN"); token != "" {
		cfg.Notion.Token = token
	}
	if cfg.Settings.Format == "" {
		cfg.Settings.Format = lessondump.FormatMarkdown
	}
	format, err := lessondump.ParseExportFormat(string(cfg.Settings.Format))
	if err != nil {
		return cfg, err
	}
	cfg.Settings.Format = format
	return cfg, nil
}

func defaultConfigPath() string {
	return filepath.Join(homeDir(), "config.yaml")
}

func defaultDBPath() string {
	if path := os.Getenv("LESSONDUMP_DB"); path != "" {
		return path
	}
	return filepath.Join(homeDir(), "lessondump.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".lessondump")
}
