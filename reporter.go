package honeybee

import (
	"context"
	"encoding/json"
	"errors"
	"io"
)

// WriteSTHs writes sths to w as a JSON array indented by four spaces and
// terminated by a newline. An empty or nil sths writes "[]". Characters
// such as <, > and & are written as they are.
func WriteSTHs(w io.Writer, sths []*STH) (err error) {
	if sths == nil {
		sths = []*STH{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(sths)
}

// Run fetches the STH of every log in reg and writes the valid ones to
// cfg.Output. Per-log failures go to cfg.ErrorWriter and do not make Run fail.
func Run(ctx context.Context, cfg *Config, reg *Registry) (err error) {
	f := NewFetcher(cfg)
	sths := f.FetchAll(ctx, reg)
	out := f.Output
	if out == nil {
		out = io.Discard
	}
	err = errors.Join(WriteSTHs(out, sths), f.Close())
	return
}
