package honeybee

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

var DefaultTransport = &http.Transport{
	TLSHandshakeTimeout:   DefaultTimeout,
	ResponseHeaderTimeout: DefaultTimeout,
	MaxIdleConnsPerHost:   2,
	DisableKeepAlives:     false,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
}

// userAgentTransport sets the User-Agent header on every request.
// An empty value suppresses the Go default.
type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (uat userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header["User-Agent"] = []string{uat.userAgent}
	return uat.next.RoundTrip(req)
}

// newTransport returns the RoundTripper chain for fetching STHs.
// Certificate verification is controlled by cfg.SkipCertVerify and
// affects only this transport.
func newTransport(cfg *Config, counter *requestCounter) (rt http.RoundTripper) {
	tp := DefaultTransport.Clone()
	if cfg.Dialer != nil {
		tp.DialContext = cfg.Dialer.DialContext
	} else {
		tp.DialContext = (&net.Dialer{}).DialContext
	}
	tp.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.SkipCertVerify, // #nosec G402
	}
	rt = userAgentTransport{next: tp, userAgent: cfg.UserAgent}
	if counter != nil {
		counter.next = rt
		rt = counter
	}
	return
}
