package honeybee

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeLogList(urls ...string) string {
	var ops []string
	for i, u := range urls {
		ops = append(ops, fmt.Sprintf(`{"name":"Operator %d","email":["ct@example.com"],"logs":[{"description":"Log %d","log_id":"bG9nQQ==","key":"a2V5","url":%q,"mmd":86400}]}`, i, i, u))
	}
	return `{"version":"1.0","operators":[` + strings.Join(ops, ",") + `]}`
}

func TestParseLogListOrder(t *testing.T) {
	doc := `{"operators":[
		{"name":"A","logs":[
			{"url":"https://a.example.com/2/","log_id":"bG9nQQ=="},
			{"url":"https://a.example.com/1/","log_id":"bG9nQg=="}
		]},
		{"name":"B","logs":[]},
		{"name":"C","logs":[
			{"url":"https://c.example.com/","log_id":"bG9nQw==","description":"C log"}
		]}
	]}`
	reg, err := ParseLogList([]byte(doc))
	if err != nil {
		t.Fatalf("ParseLogList: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", reg.Len())
	}
	want := []string{"https://a.example.com/2/", "https://a.example.com/1/", "https://c.example.com/"}
	for i, log := range reg.Logs() {
		if log.URL != want[i] {
			t.Fatalf("Logs()[%d].URL = %q, want %q", i, log.URL, want[i])
		}
		if log.Index != i {
			t.Fatalf("Logs()[%d].Index = %d", i, log.Index)
		}
	}
	c := reg.Lookup("https://c.example.com/")
	if c == nil {
		t.Fatalf("Lookup returned nil")
	}
	if string(c.ID) != `"bG9nQw=="` || c.Operator == nil || c.Operator.Name != "C" {
		t.Fatalf("Lookup returned %+v", c)
	}
	if c.Info == nil || c.Info.Description != "C log" || string(c.Info.LogID) != "logC" {
		t.Fatalf("Info = %+v", c.Info)
	}
	if c.String() != "C:https://c.example.com/" {
		t.Fatalf("String() = %q", c.String())
	}
	if reg.Lookup("https://nope.example.com/") != nil {
		t.Fatalf("Lookup of unknown URL returned a log")
	}
}

func TestParseLogListDuplicateURL(t *testing.T) {
	_, err := ParseLogList([]byte(makeLogList("https://a.example.com/", "https://b.example.com/", "https://a.example.com/")))
	if !errors.Is(err, ErrDuplicateLogURL) {
		t.Fatalf("err = %v, want %v", err, ErrDuplicateLogURL)
	}
	if !strings.Contains(err.Error(), "https://a.example.com/") {
		t.Fatalf("error does not name the URL: %v", err)
	}
}

func TestParseLogListMalformed(t *testing.T) {
	docs := []string{
		``,
		`not json`,
		`[]`,
		`{}`,
		`{"operators":null}`,
		`{"operators":{}}`,
		`{"operators":[1]}`,
		`{"operators":[null]}`,
		`{"operators":[{"name":"A"}]}`,
		`{"operators":[{"name":"A","logs":null}]}`,
		`{"operators":[{"name":"A","logs":{}}]}`,
		`{"operators":[{"logs":["https://a.example.com/"]}]}`,
		`{"operators":[{"logs":[{"log_id":"bG9nQQ=="}]}]}`,
		`{"operators":[{"logs":[{"url":null}]}]}`,
		`{"operators":[{"logs":[{"url":7}]}]}`,
		`{"operators":[{"logs":[{"url":"https://a.example.com/"}]}]`,
	}
	for _, doc := range docs {
		if reg, err := ParseLogList([]byte(doc)); !errors.Is(err, ErrLogList) {
			t.Fatalf("ParseLogList(%q) = %v, %v; want %v", doc, reg, err, ErrLogList)
		}
	}
}

func TestParseLogListLenient(t *testing.T) {
	doc := `{"operators":[
		{"name":["x"],"logs":[
			{"url":"https://a.example.com/","log_id":"%%%"},
			{"url":"https://b.example.com/","log_id":7,"mmd":"24h"},
			{"url":"https://c.example.com/"}
		],"tiled_logs":[{"monitoring_url":"https://d.example.com/"}]},
		{"name":"E","logs":[
			{"url":"https://e.example.com/","log_id":"bG9nRQ==","description":"E log"}
		]}
	]}`
	reg, err := ParseLogList([]byte(doc))
	if err != nil {
		t.Fatalf("ParseLogList: %v", err)
	}
	if reg.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", reg.Len())
	}
	tcs := []struct {
		url      string
		id       string
		operator bool
		info     bool
	}{
		{"https://a.example.com/", `"%%%"`, false, false},
		{"https://b.example.com/", `7`, false, false},
		{"https://c.example.com/", ``, false, true},
		{"https://e.example.com/", `"bG9nRQ=="`, true, true},
	}
	for _, tc := range tcs {
		log := reg.Lookup(tc.url)
		if log == nil {
			t.Fatalf("Lookup(%q) returned nil", tc.url)
		}
		if string(log.ID) != tc.id {
			t.Fatalf("%s: ID = %s, want %s", tc.url, log.ID, tc.id)
		}
		if (log.Operator != nil) != tc.operator || (log.Info != nil) != tc.info {
			t.Fatalf("%s: Operator = %v, Info = %v", tc.url, log.Operator, log.Info)
		}
	}
	if got := reg.Lookup("https://a.example.com/").String(); got != ":https://a.example.com/" {
		t.Fatalf("String() = %q", got)
	}
}

func TestLoadLogList(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), LogListFile)
	if err := os.WriteFile(fpath, []byte(makeLogList("https://a.example.com/", "https://b.example.com/")), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	reg, err := LoadLogList(fpath)
	if err != nil {
		t.Fatalf("LoadLogList: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
}

func TestLoadLogListMissing(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "missing.json")
	_, err := LoadLogList(fpath)
	if !errors.Is(err, ErrLogList) {
		t.Fatalf("err = %v, want %v", err, ErrLogList)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want %v", err, os.ErrNotExist)
	}
	if !strings.Contains(err.Error(), fpath) {
		t.Fatalf("error does not name the file: %v", err)
	}
}

func TestLoadLogListMalformedNamesFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), LogListFile)
	if err := os.WriteFile(fpath, []byte(`{"operators":`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := LoadLogList(fpath)
	if !errors.Is(err, ErrLogList) || !strings.Contains(err.Error(), fpath) {
		t.Fatalf("err = %v", err)
	}
}

func TestDefaultLogListPath(t *testing.T) {
	if got := DefaultLogListPath(); filepath.Base(got) != LogListFile {
		t.Fatalf("DefaultLogListPath() = %q", got)
	}
}

func TestRegistryNil(t *testing.T) {
	var reg *Registry
	if reg.Len() != 0 || reg.Logs() != nil || reg.Lookup("x") != nil {
		t.Fatalf("nil Registry not empty")
	}
}
