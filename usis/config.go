package usis

import (
	"errors"
	"fmt"
	"time"

	"github.com/usis-protocol/go-usis/logger"
)

// Default session parameters. Baud rate and timeouts follow the USIS serial
// profile: 9600 baud 8N1, 1 second channel read/write timeout, 3 second
// overall transaction timeout.
const (
	DefaultBaudRate = 9600

	DefaultReadTimeout     = 1 * time.Second // per poll-read call on the channel
	DefaultExchangeTimeout = 3 * time.Second // overall bound for one transaction
	DefaultRetryInterval   = 3 * time.Second // wait after a transient read fault
)

// Parameter range limits.
const (
	MinReadTimeout = 10 * time.Millisecond
	MaxReadTimeout = 10 * time.Second

	MinExchangeTimeout = 10 * time.Millisecond
	MaxExchangeTimeout = 60 * time.Second

	MinRetryInterval = 0
	MaxRetryInterval = 30 * time.Second
)

// SessionConfig holds all configuration for a USIS session.
type SessionConfig struct {
	// baudRate is the serial line speed. The framing is always 8N1.
	baudRate int

	// readTimeout bounds each poll-read call on the serial channel.
	readTimeout time.Duration

	// exchangeTimeout bounds one full transaction (write plus reply wait).
	// The transport's polling loop is the sole enforcement of this bound;
	// there is no separate outer timer.
	exchangeTimeout time.Duration

	// retryInterval is how long the transport waits after a transient read
	// fault before polling again. Single retry class, no escalation.
	retryInterval time.Duration

	logger logger.Logger
}

// NewSessionConfig creates a session configuration with defaults, then
// applies opts in order.
func NewSessionConfig(opts ...Option) (*SessionConfig, error) {
	cfg := &SessionConfig{
		baudRate:        DefaultBaudRate,
		readTimeout:     DefaultReadTimeout,
		exchangeTimeout: DefaultExchangeTimeout,
		retryInterval:   DefaultRetryInterval,
		logger:          logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// --- Getters ---

// BaudRate returns the configured serial line speed.
func (cfg *SessionConfig) BaudRate() int { return cfg.baudRate }

// ReadTimeout returns the per-poll-read timeout.
func (cfg *SessionConfig) ReadTimeout() time.Duration { return cfg.readTimeout }

// ExchangeTimeout returns the overall bound for one transaction.
func (cfg *SessionConfig) ExchangeTimeout() time.Duration { return cfg.exchangeTimeout }

// RetryInterval returns the wait applied after a transient read fault.
func (cfg *SessionConfig) RetryInterval() time.Duration { return cfg.retryInterval }

// GetLogger returns the configured logger.
func (cfg *SessionConfig) GetLogger() logger.Logger { return cfg.logger }

// --- Option ---

// Option is a functional option for configuring a SessionConfig.
type Option interface {
	apply(*SessionConfig) error
}

type optionFunc func(*SessionConfig) error

func (f optionFunc) apply(cfg *SessionConfig) error { return f(cfg) }

// WithBaudRate sets the serial line speed.
func WithBaudRate(baud int) Option {
	return optionFunc(func(cfg *SessionConfig) error {
		if baud <= 0 {
			return fmt.Errorf("usis: baud rate %d must be positive", baud)
		}
		cfg.baudRate = baud

		return nil
	})
}

// WithReadTimeout sets the timeout of each poll-read call on the channel.
func WithReadTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *SessionConfig) error {
		if d < MinReadTimeout || d > MaxReadTimeout {
			return fmt.Errorf("usis: read timeout %v out of range [%v, %v]", d, MinReadTimeout, MaxReadTimeout)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithExchangeTimeout sets the overall bound for one transaction.
func WithExchangeTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *SessionConfig) error {
		if d < MinExchangeTimeout || d > MaxExchangeTimeout {
			return fmt.Errorf("usis: exchange timeout %v out of range [%v, %v]", d, MinExchangeTimeout, MaxExchangeTimeout)
		}
		cfg.exchangeTimeout = d

		return nil
	})
}

// WithRetryInterval sets the wait applied after a transient read fault
// before the transport polls again.
func WithRetryInterval(d time.Duration) Option {
	return optionFunc(func(cfg *SessionConfig) error {
		if d < MinRetryInterval || d > MaxRetryInterval {
			return fmt.Errorf("usis: retry interval %v out of range [%v, %v]", d, MinRetryInterval, MaxRetryInterval)
		}
		cfg.retryInterval = d

		return nil
	})
}

// WithLogger sets the logger for the session.
func WithLogger(l logger.Logger) Option {
	return optionFunc(func(cfg *SessionConfig) error {
		if l == nil {
			return errors.New("usis: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
