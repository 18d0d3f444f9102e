package parser

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultTabStop is the column width of a tab when computing positions.
const DefaultTabStop uint = 8

// Config controls a single parse.
type Config struct {
	// TabStop is the tab width used for Position.Column.
	TabStop uint
	// MaxErrors bounds how many parse errors are recorded; negative means no
	// limit. Parsing continues after the limit is reached.
	MaxErrors int
	// StopOnFirstError ends tree construction at the first parse error. The
	// tree built so far is still returned.
	StopOnFirstError bool
	Logger           *logrus.Logger
}

// Option configures a parse.
type Option func(*Config)

func defaultConfig() Config {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return Config{
		TabStop:   DefaultTabStop,
		MaxErrors: -1,
		Logger:    logger,
	}
}

func WithTabStop(n uint) Option {
	return func(c *Config) {
		if n > 0 {
			c.TabStop = n
		}
	}
}

func WithMaxErrors(n int) Option {
	return func(c *Config) { c.MaxErrors = n }
}

func WithStopOnFirstError(stop bool) Option {
	return func(c *Config) { c.StopOnFirstError = stop }
}

// WithLogger routes parser debug logging to l.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}
