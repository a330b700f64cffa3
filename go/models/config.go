package models

import (
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Config struct {
	Color     bool
	Verbose   bool
	Format    string
	TypesPath string

	Output io.Writer

	logger log.Logger
}

func (c *Config) Init() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
	if c.Format == "" {
		c.Format = "auto"
	}
	return c
}

// Logger writes logfmt lines to Output. Debug lines are dropped unless
// Verbose is set.
func (c *Config) Logger() log.Logger {
	if c.logger != nil {
		return c.logger
	}
	out := c.Output
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(out))
	if c.Verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	c.logger = logger
	return logger
}
