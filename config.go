package honeybee

import (
	"io"
	"net"
	"os"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultTimeout is the per-log get-sth timeout.
const DefaultTimeout = 15 * time.Second

type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Logger      Logger              // if not nil Logger to use, no default
	Dialer      proxy.ContextDialer // dialer for get-sth requests, defaults to &net.Dialer{}
	Timeout     time.Duration       // per-log fetch timeout, default DefaultTimeout
	Concurrency int                 // number of logs fetched at the same time, default 8
	UserAgent   string              // User-Agent header value, default empty (no header sent)
	RequestLog  string              // if not empty, append one line per get-sth fetch to this file
	Output      io.Writer           // receives the STH array, default os.Stdout
	ErrorWriter io.Writer           // receives per-log error lines, default os.Stderr
	Now         func() time.Time    // clock for error line timestamps, default time.Now

	// SkipCertVerify disables TLS certificate chain and hostname checks for
	// connections to logs. Logs are not required to use certificates from a
	// widely trusted CA; STHs are signed by the log and checked by auditors.
	// Default true. Applies only to the Fetcher's own HTTP client.
	SkipCertVerify bool
}

// NewConfig returns a new default Config
func NewConfig() *Config {
	return &Config{
		Logger:         nil,
		Dialer:         &net.Dialer{},
		Timeout:        DefaultTimeout,
		Concurrency:    8,
		UserAgent:      "",
		RequestLog:     "",
		Output:         os.Stdout,
		ErrorWriter:    os.Stderr,
		Now:            time.Now,
		SkipCertVerify: true,
	}
}
