package honeybee

import (
	"maps"
	"net/http"
	"strings"
	"sync"
)

// requestCounter counts requests per log URL.
type requestCounter struct {
	next  http.RoundTripper
	mu    sync.Mutex
	calls map[string]int64
}

func newRequestCounter() *requestCounter {
	return &requestCounter{calls: map[string]int64{}}
}

func requestCounterKey(req *http.Request) (mapkey string) {
	mapkey = req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	if prefix, ok := strings.CutSuffix(mapkey, STHURL("")); ok {
		mapkey = prefix
	} else if idx := strings.Index(mapkey, "/ct/"); idx != -1 {
		mapkey = mapkey[:idx+1]
	}
	return
}

func (rc *requestCounter) RoundTrip(req *http.Request) (*http.Response, error) {
	mapkey := requestCounterKey(req)
	rc.mu.Lock()
	rc.calls[mapkey]++
	rc.mu.Unlock()
	return rc.next.RoundTrip(req)
}

func (rc *requestCounter) get() (m map[string]int64) {
	rc.mu.Lock()
	m = maps.Clone(rc.calls)
	rc.mu.Unlock()
	return
}
