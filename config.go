package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/heathj/srctree/parser"
)

// cliConfig is the YAML configuration file. Command line flags override it.
type cliConfig struct {
	LogLevel         string `yaml:"log_level"`
	TabStop          uint   `yaml:"tab_stop"`
	MaxErrors        *int   `yaml:"max_errors"`
	StopOnFirstError bool   `yaml:"stop_on_first_error"`
}

func defaultCLIConfig() *cliConfig {
	return &cliConfig{
		LogLevel: "warn",
		TabStop:  parser.DefaultTabStop,
	}
}

// loadConfig reads path over the defaults. Unknown keys are an error.
func loadConfig(path string) (*cliConfig, error) {
	cfg := defaultCLIConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c *cliConfig) logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

func (c *cliConfig) parserOptions(logger *logrus.Logger) []parser.Option {
	opts := []parser.Option{
		parser.WithTabStop(c.TabStop),
		parser.WithStopOnFirstError(c.StopOnFirstError),
		parser.WithLogger(logger),
	}
	if c.MaxErrors != nil {
		opts = append(opts, parser.WithMaxErrors(*c.MaxErrors))
	}
	return opts
}
