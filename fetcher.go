package honeybee

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	ct "github.com/google/certificate-transparency-go"
	"github.com/google/certificate-transparency-go/jsonclient"
	"golang.org/x/sync/errgroup"
)

// Fetcher fetches STHs from CT logs using its own HTTP client.
type Fetcher struct {
	Config                  // copy of config
	Client  *http.Client    // HTTP client used for get-sth requests
	counter *requestCounter // requests per log
	reqlog  *requestLog     // may be nil
	mu      sync.Mutex      // serializes writes to ErrorWriter
}

// NewFetcher returns a Fetcher using a copy of cfg.
func NewFetcher(cfg *Config) (f *Fetcher) {
	f = &Fetcher{
		Config:  *cfg,
		counter: newRequestCounter(),
	}
	if f.Timeout <= 0 {
		f.Timeout = DefaultTimeout
	}
	if f.Now == nil {
		f.Now = time.Now
	}
	f.reqlog = newRequestLog(f.Config.RequestLog)
	f.Client = &http.Client{
		Timeout:   f.Timeout,
		Transport: newTransport(&f.Config, f.counter),
	}
	return
}

func (f *Fetcher) LogInfo(msg string, args ...any) {
	if f.Config.Logger != nil {
		f.Config.Logger.Info("honeybee: "+msg, args...)
	}
}

func (f *Fetcher) LogError(err error, msg string, args ...any) error {
	if err != nil && f.Config.Logger != nil {
		if unwrapper, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range unwrapper.Unwrap() {
				f.Config.Logger.Error("honeybee: "+msg, append(args, "err", e)...)
			}
		} else {
			f.Config.Logger.Error("honeybee: "+msg, append(args, "err", err)...)
		}
	}
	return err
}

// Requests returns the number of HTTP requests made, keyed by log URL.
func (f *Fetcher) Requests() map[string]int64 {
	return f.counter.get()
}

// Close closes the request log, if any, returning the first error
// seen while writing it.
func (f *Fetcher) Close() error {
	return f.reqlog.Close()
}

// STHURL returns the get-sth endpoint of the log at logURL. The log URL
// is used as given and is expected to end with a slash.
func STHURL(logURL string) string {
	return logURL + strings.TrimPrefix(ct.GetSTHPath, "/")
}

// FetchSTH fetches the STH of log. It returns a nil STH and a nil error if
// the log answered with JSON that is not a valid STH. An object answer
// for a log listed without a log_id fails with ErrMissingLogID.
func (f *Fetcher) FetchSTH(ctx context.Context, log *Log) (sth *STH, err error) {
	fr := &fetchRecord{start: time.Now(), url: log.URL}
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	var body []byte
	if body, fr.status, err = f.getSTH(ctx, log.URL); err == nil {
		var raw json.RawMessage
		if !utf8.Valid(body) {
			err = ErrUnicodeDecode
		} else if jerr := json.Unmarshal(body, &raw); jerr != nil {
			err = jsonclient.RspError{Err: jerr, StatusCode: fr.status, Body: body}
		} else {
			sth, err = tagSTH(raw, log)
		}
	}
	fr.size = len(body)
	fr.elapsed = time.Since(fr.start)
	fr.err, fr.sth = err, sth
	f.reqlog.record(fr)
	return
}

// getSTH returns the body of a successful get-sth response from the log at
// logURL. A response status other than 200 is returned as a
// jsonclient.RspError.
func (f *Fetcher) getSTH(ctx context.Context, logURL string) (body []byte, status int, err error) {
	var req *http.Request
	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, STHURL(logURL), nil); err == nil {
		var resp *http.Response
		if resp, err = f.Client.Do(req); err == nil {
			defer resp.Body.Close()
			status = resp.StatusCode
			if body, err = io.ReadAll(resp.Body); err == nil && status != http.StatusOK {
				err = jsonclient.RspError{
					Err:        fmt.Errorf("HTTP Error %d: %s", status, http.StatusText(status)),
					StatusCode: status,
					Body:       body,
				}
			}
		}
	}
	return
}

// FetchAll fetches the STH of every log in reg, at most Concurrency at a
// time, and returns the valid ones in registry order. Failures are written
// to ErrorWriter as they happen.
func (f *Fetcher) FetchAll(ctx context.Context, reg *Registry) (sths []*STH) {
	logs := reg.Logs()
	results := make([]*STH, len(logs))
	var eg errgroup.Group
	eg.SetLimit(max(1, f.Concurrency))
	for i, log := range logs {
		i, log := i, log
		eg.Go(func() error {
			sth, err := f.FetchSTH(ctx, log)
			if err != nil {
				f.reportError(log, err)
			} else if sth != nil {
				f.LogInfo("sth", "url", log.URL, "tree_size", string(sth.Raw("tree_size")))
			}
			results[i] = sth
			return nil
		})
	}
	_ = eg.Wait()
	sths = []*STH{}
	for _, sth := range results {
		if sth != nil {
			sths = append(sths, sth)
		}
	}
	var requests int64
	for _, n := range f.Requests() {
		requests += n
	}
	f.LogInfo("fetched", "logs", len(logs), "sths", len(sths), "requests", requests)
	return
}

func (f *Fetcher) reportError(log *Log, err error) {
	le := LogError{When: f.Now(), URL: log.URL, Err: err}
	if f.ErrorWriter != nil {
		f.mu.Lock()
		_, _ = fmt.Fprintln(f.ErrorWriter, le.Error())
		f.mu.Unlock()
	}
	_ = f.LogError(err, "get-sth", "url", log.URL, "category", ErrorCategory(err))
}
