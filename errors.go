package honeybee

import (
	"errors"
)

var ErrLogList = errors.New("log list")
var ErrDuplicateLogURL = errors.New("multiple entries")
var ErrUnicodeDecode = errors.New("invalid UTF-8")
var ErrMissingLogID = errors.New("missing log_id")

type errLogList struct {
	path string
	err  error
}

func (e errLogList) Error() string {
	if e.path != "" {
		return ErrLogList.Error() + ": " + e.path + ": " + e.err.Error()
	}
	return ErrLogList.Error() + ": " + e.err.Error()
}

func (e errLogList) Unwrap() error {
	return e.err
}

func (e errLogList) Is(target error) bool {
	return target == ErrLogList
}

type errDuplicateLogURL struct {
	url string
}

func (e errDuplicateLogURL) Error() string {
	return ErrDuplicateLogURL.Error() + ": " + e.url
}

func (e errDuplicateLogURL) Is(target error) bool {
	return target == ErrDuplicateLogURL
}

type wrappedErr struct {
	err error
	msg string
}

func (we wrappedErr) Error() string {
	return we.msg + ": " + we.err.Error()
}

func (we wrappedErr) Unwrap() error {
	return we.err
}

func wrapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return wrappedErr{err: err, msg: msg}
}
