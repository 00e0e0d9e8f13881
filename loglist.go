package honeybee

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/certificate-transparency-go/loglist3"
	jsoniter "github.com/json-iterator/go"
)

// LogListFile is the log list file name looked for next to the executable.
const LogListFile = "honeybee.json"

// DefaultLogListPath returns the path of LogListFile in the directory of
// the running executable, or just LogListFile if that can't be determined.
func DefaultLogListPath() (fpath string) {
	fpath = LogListFile
	if exe, err := os.Executable(); err == nil {
		fpath = filepath.Join(filepath.Dir(exe), LogListFile)
	}
	return
}

type jsonObject = map[string]jsoniter.RawMessage

// LoadLogList reads and parses the log list at fpath.
func LoadLogList(fpath string) (reg *Registry, err error) {
	var b []byte
	if b, err = os.ReadFile(fpath); err == nil {
		if reg, err = ParseLogList(b); err != nil {
			if ell, ok := err.(errLogList); ok {
				ell.path = fpath
				err = ell
			}
		}
	} else {
		err = errLogList{path: fpath, err: err}
	}
	return
}

// ParseLogList parses a log list document and returns the Registry of its logs
// in document order. Only "operators", their "logs" and each log's "url"
// are required; "log_id" and all other fields are taken as they are.
// It fails if the document is malformed or if the same log URL occurs more
// than once.
func ParseLogList(b []byte) (reg *Registry, err error) {
	if reg, err = parseLogList(b); err != nil {
		reg = nil
		if !errors.Is(err, ErrDuplicateLogURL) {
			err = errLogList{err: err}
		}
	}
	return
}

func parseLogList(b []byte) (reg *Registry, err error) {
	if !jsonAPI.Valid(b) {
		return nil, errors.New("invalid JSON")
	}
	var doc jsonObject
	if err = jsonAPI.Unmarshal(b, &doc); err == nil {
		var operators []jsoniter.RawMessage
		if err = decodeMember(doc, "operators", &operators); err == nil {
			reg = newRegistry()
			for _, rawop := range operators {
				if err = reg.addOperator(rawop); err != nil {
					break
				}
			}
		}
	}
	return
}

func (reg *Registry) addOperator(rawop []byte) (err error) {
	var op jsonObject
	if err = jsonAPI.Unmarshal(rawop, &op); err == nil {
		var logs []jsoniter.RawMessage
		if err = decodeMember(op, "logs", &logs); err == nil {
			operator := decodeOperator(op)
			for _, rawlog := range logs {
				var lg jsonObject
				if err = jsonAPI.Unmarshal(rawlog, &lg); err != nil {
					return wrapErr(err, "logs")
				}
				log := &Log{Operator: operator}
				if err = decodeMember(lg, "url", &log.URL); err != nil {
					return
				}
				if id, ok := lg["log_id"]; ok {
					log.ID = bytes.TrimSpace(id)
				}
				var info loglist3.Log
				if jsonAPI.Unmarshal(rawlog, &info) == nil {
					log.Info = &info
				}
				if err = reg.add(log); err != nil {
					return
				}
			}
		}
	} else {
		err = wrapErr(err, "operators")
	}
	return
}

// decodeOperator returns the loglist3 view of op without its logs,
// or nil if op doesn't fit it.
func decodeOperator(op jsonObject) (operator *loglist3.Operator) {
	rest := jsonObject{}
	for k, v := range op {
		if k != "logs" && k != "tiled_logs" {
			rest[k] = v
		}
	}
	if b, err := jsonAPI.Marshal(rest); err == nil {
		var o loglist3.Operator
		if jsonAPI.Unmarshal(b, &o) == nil {
			operator = &o
		}
	}
	return
}

func decodeMember(obj jsonObject, key string, v any) (err error) {
	raw := bytes.TrimSpace(obj[key])
	if len(raw) == 0 || string(raw) == "null" {
		return errors.New(`missing "` + key + `"`)
	}
	return wrapErr(jsonAPI.Unmarshal(raw, v), key)
}
