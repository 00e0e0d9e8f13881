package honeybee

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var ErrRequestLogOpen = errors.New("request log open failed")

type errRequestLogOpen struct {
	err error
}

func (e errRequestLogOpen) Error() string {
	return ErrRequestLogOpen.Error() + ": " + e.err.Error()
}

func (e errRequestLogOpen) Unwrap() error {
	return e.err
}

func (e errRequestLogOpen) Is(target error) bool {
	return target == ErrRequestLogOpen
}

// Fetch outcomes recorded in the request log besides error categories.
const (
	OutcomeAccepted = "accepted"
	OutcomeDropped  = "dropped"
)

// fetchRecord describes one get-sth exchange with a log.
type fetchRecord struct {
	start   time.Time
	elapsed time.Duration
	url     string
	status  int // HTTP status, 0 if no response
	size    int // response body length
	err     error
	sth     *STH
}

func (fr *fetchRecord) outcome() (s string) {
	switch {
	case fr.err != nil:
		s = ErrorCategory(fr.err)
	case fr.sth != nil:
		s = OutcomeAccepted
	default:
		s = OutcomeDropped
	}
	return
}

// requestLog appends one line per fetch to a file that is created on the
// first record, so an unused request log leaves no file behind.
type requestLog struct {
	path string
	mu   sync.Mutex
	w    io.Writer
	file *os.File
	err  error // first open or write error
}

func newRequestLog(path string) (rl *requestLog) {
	if path != "" {
		rl = &requestLog{path: path}
	}
	return
}

// record writes "<start> <url> <status> (<size>) <elapsed> => <outcome>",
// followed by the quoted error message for failed fetches.
func (rl *requestLog) record(fr *fetchRecord) {
	if rl != nil {
		line := fmt.Sprintf("%s %s %03d (%d) %v => %s",
			fr.start.UTC().Format(time.RFC3339), fr.url, fr.status, fr.size,
			fr.elapsed.Round(time.Millisecond), fr.outcome())
		if fr.err != nil {
			line += fmt.Sprintf(" %q", fr.err.Error())
		}
		rl.mu.Lock()
		defer rl.mu.Unlock()
		if rl.w == nil && rl.err == nil {
			if rl.file, rl.err = os.OpenFile(rl.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); rl.err == nil {
				rl.w = rl.file
			} else {
				rl.err = errRequestLogOpen{err: rl.err}
			}
		}
		if rl.w != nil {
			if _, err := io.WriteString(rl.w, line+"\n"); err != nil && rl.err == nil {
				rl.err = err
			}
		}
	}
}

// Close closes the file and returns the first error seen while recording.
func (rl *requestLog) Close() (err error) {
	if rl != nil {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		err = rl.err
		if rl.file != nil {
			err = errors.Join(err, rl.file.Close())
			rl.file = nil
		}
		rl.w = nil
	}
	return
}
