package go_duka

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stremovskyy/recorder"

	"github.com/dukahq/go-duka/consts"
	"github.com/dukahq/go-duka/log"
	"github.com/dukahq/go-duka/storage"
)

type Option func(*config) error

type config struct {
	baseURL string

	httpClient *http.Client
	logger     log.Logger
	logBodies  bool

	retryAttempts int
	retryWait     time.Duration
	recorder      recorder.Recorder
	breaker       bool

	session *Session
}

func defaultConfig() config {
	return config{
		baseURL:    consts.DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.NewDefault(),
		// One attempt by default: order creation and payment initiation
		// must not be silently re-sent.
		retryAttempts: 1,
		retryWait:     300 * time.Millisecond,
		session:       NewSession(storage.NewMemory()),
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(cfg *config) error {
		baseURL = strings.TrimSpace(baseURL)
		if baseURL == "" {
			return errors.New("base url is empty")
		}
		cfg.baseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			return errors.New("http client is nil")
		}
		cfg.httpClient = client
		return nil
	}
}

// WithClient is an alias of WithHTTPClient.
func WithClient(client *http.Client) Option {
	return WithHTTPClient(client)
}

// WithTimeout sets http client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *config) error {
		if timeout <= 0 {
			return errors.New("timeout must be > 0")
		}
		cfg.httpClient.Timeout = timeout
		return nil
	}
}

func WithLogger(logger log.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			cfg.logger = log.NopLogger{}
			return nil
		}
		cfg.logger = logger
		return nil
	}
}

// WithLogHTTPBodies enables verbose request/response body logging for debugging.
//
// Disabled by default because bodies may contain sensitive data.
func WithLogHTTPBodies(enabled bool) Option {
	return func(cfg *config) error {
		cfg.logBodies = enabled
		return nil
	}
}

// WithRecorder attaches a request/response recorder.
func WithRecorder(r recorder.Recorder) Option {
	return func(cfg *config) error {
		cfg.recorder = r
		return nil
	}
}

// WithRetry enables transient-error retries. Only transport failures,
// 429 and 5xx are retried; order creation and payment initiation
// rejections never are.
func WithRetry(attempts int, wait time.Duration) Option {
	return func(cfg *config) error {
		if attempts <= 0 {
			return errors.New("retry attempts must be > 0")
		}
		if wait <= 0 {
			return errors.New("retry wait must be > 0")
		}
		cfg.retryAttempts = attempts
		cfg.retryWait = wait
		return nil
	}
}

// WithCircuitBreaker trips the client open after repeated transport
// failures instead of hammering an unreachable API.
func WithCircuitBreaker() Option {
	return func(cfg *config) error {
		cfg.breaker = true
		return nil
	}
}

// WithCredentialStorage keeps the auth token in kv so it survives
// restarts. Defaults to an in-memory store.
func WithCredentialStorage(kv storage.Store) Option {
	return func(cfg *config) error {
		if kv == nil {
			return errors.New("credential storage is nil")
		}
		cfg.session = NewSession(kv)
		return nil
	}
}

// WithSession shares an existing session between clients.
func WithSession(s *Session) Option {
	return func(cfg *config) error {
		if s == nil {
			return errors.New("session is nil")
		}
		cfg.session = s
		return nil
	}
}
