package djaysync

import "time"

type Config struct {
	DBPath           string
	Limit            int
	NoOverwrite      bool
	UpdateAllMatches bool
	ScriptTimeout    time.Duration
	Logger           Logger
	Library          Library
	Updater          Updater
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

// WithLimit caps the number of playlist tracks planned. 0 means no limit.
func WithLimit(n int) Option {
	return func(c *Config) {
		c.Limit = n
	}
}

func WithNoOverwrite(v bool) Option {
	return func(c *Config) {
		c.NoOverwrite = v
	}
}

func WithUpdateAllMatches(v bool) Option {
	return func(c *Config) {
		c.UpdateAllMatches = v
	}
}

func WithScriptTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ScriptTimeout = d
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithLibrary(lib Library) Option {
	return func(c *Config) {
		c.Library = lib
	}
}

func WithUpdater(u Updater) Option {
	return func(c *Config) {
		c.Updater = u
	}
}

func defaultConfig() *Config {
	return &Config{
		ScriptTimeout: 30 * time.Second,
	}
}
