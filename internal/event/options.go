package event

import "github.com/dshills/nightloop/internal/logging"

// Option configures a Bus.
type Option func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// logger receives lifecycle and rejection messages.
	logger *logging.Logger

	// listCapacity is the initial capacity of each per-code registrant list.
	listCapacity uint64
}

// defaultBusConfig returns the default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		logger:       logging.Discard(),
		listCapacity: 1,
	}
}

// WithLogger sets the bus logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithListCapacity sets the initial capacity of registrant lists.
func WithListCapacity(n uint64) Option {
	return func(c *busConfig) {
		if n > 0 {
			c.listCapacity = n
		}
	}
}
