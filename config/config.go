// Package config reads the .scopejs.yaml settings file.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no --config
// flag is given.
const DefaultPath = ".scopejs.yaml"

type Config struct {
	Strict      bool                   `yaml:"strict"`
	LogLevel    string                 `yaml:"log_level"`
	Prompt      string                 `yaml:"prompt"`
	HistoryFile string                 `yaml:"history_file"`
	Globals     map[string]interface{} `yaml:"globals"`
}

func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Prompt:   "> ",
	}
}

// Load reads the config file at path. A missing file is only an error
// when the path was asked for explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "open config")
	}
	defer f.Close()
	cfg, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Read decodes a config, filling in defaults for missing keys.
func Read(in io.Reader) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(in).Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level is the configured log level; Read has already validated it.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}
