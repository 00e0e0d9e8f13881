package honeybee

import (
	"fmt"

	"github.com/google/certificate-transparency-go/loglist3"
)

// Log is a CT log from the log list.
type Log struct {
	URL      string
	ID       []byte             // log_id JSON text as given in the log list, nil if absent
	Index    int                // position in the log list
	Operator *loglist3.Operator // nil if the operator entry doesn't fit loglist3
	Info     *loglist3.Log      // nil if the log entry doesn't fit loglist3
}

func (log *Log) String() string {
	name := ""
	if log.Operator != nil {
		name = log.Operator.Name
	}
	return fmt.Sprintf("%s:%s", name, log.URL)
}

// Registry holds the logs of a log list keyed by URL, in log list order.
type Registry struct {
	logs  []*Log
	byURL map[string]*Log
}

func newRegistry() *Registry {
	return &Registry{byURL: map[string]*Log{}}
}

func (reg *Registry) add(log *Log) (err error) {
	if _, ok := reg.byURL[log.URL]; ok {
		return errDuplicateLogURL{url: log.URL}
	}
	log.Index = len(reg.logs)
	reg.logs = append(reg.logs, log)
	reg.byURL[log.URL] = log
	return
}

// Logs returns the logs in log list order.
func (reg *Registry) Logs() (logs []*Log) {
	if reg != nil {
		logs = reg.logs
	}
	return
}

// Len returns the number of logs.
func (reg *Registry) Len() (n int) {
	if reg != nil {
		n = len(reg.logs)
	}
	return
}

// Lookup returns the Log with the given URL, or nil.
func (reg *Registry) Lookup(url string) (log *Log) {
	if reg != nil {
		log = reg.byURL[url]
	}
	return
}
