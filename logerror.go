package honeybee

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/google/certificate-transparency-go/jsonclient"
)

// ErrorTimeFormat is the local time layout used in LogError lines.
const ErrorTimeFormat = "2006-01-02 15:04:05 -0700"

var ErrLogFetch = errors.New("log error")

// LogError is a failure to fetch the STH of a single log.
type LogError struct {
	When time.Time
	URL  string
	Err  error
}

// Error returns the line written to the error stream, without the newline.
func (le LogError) Error() string {
	return fmt.Sprintf("[%s] %s: Log error: %s: %s: %s",
		le.When.Format(ErrorTimeFormat), PkgName, le.URL, ErrorCategory(le.Err), le.Err.Error())
}

func (le LogError) Unwrap() error {
	return le.Err
}

func (le LogError) Is(target error) bool {
	return target == ErrLogFetch
}

func transportCategory(err error) (category string) {
	var netErr net.Error
	var certErr *tls.CertificateVerificationError
	var recErr tls.RecordHeaderError
	var alertErr tls.AlertError
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		category = "TimeoutError"
	case errors.As(err, &netErr) && netErr.Timeout():
		category = "TimeoutError"
	case errors.As(err, &certErr), errors.As(err, &recErr), errors.As(err, &alertErr),
		errors.As(err, &unknownAuth), errors.As(err, &hostErr), errors.As(err, &invalidErr):
		category = "SSLError"
	}
	return
}

// ErrorCategory returns a short name for the kind of failure err represents.
func ErrorCategory(err error) (category string) {
	if err != nil {
		if category = transportCategory(err); category == "" {
			var rspErr jsonclient.RspError
			var urlErr *url.Error
			switch {
			case errors.Is(err, ErrUnicodeDecode):
				category = "UnicodeDecodeError"
			case errors.Is(err, ErrMissingLogID):
				category = "KeyError"
			case errors.As(err, &rspErr):
				if category = transportCategory(rspErr.Err); category == "" {
					switch rspErr.StatusCode {
					case 0:
						category = "URLError"
					case http.StatusOK:
						category = "JSONDecodeError"
					default:
						category = "HTTPError"
					}
				}
			case errors.As(err, &urlErr):
				category = "URLError"
			default:
				t := reflect.TypeOf(err)
				for t.Kind() == reflect.Pointer {
					t = t.Elem()
				}
				if category = t.Name(); category == "" {
					category = t.String()
				}
			}
		}
	}
	return
}
