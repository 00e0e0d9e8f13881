package honeybee

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

// jsonAPI matches encoding/json except that it leaves <, > and & unescaped.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

type sthField struct {
	key   string
	value []byte
}

// STH is a get-sth response object. Members keep the order in which they
// were first seen or set, so the log's own field order survives into the output.
type STH struct {
	fields []sthField
}

// ParseSTH parses raw as a JSON object. It returns nil if raw is not a
// JSON object. A member that occurs more than once keeps its first
// position and its last value.
func ParseSTH(raw []byte) (sth *STH) {
	iter := jsonAPI.BorrowIterator(raw)
	defer jsonAPI.ReturnIterator(iter)
	if iter.WhatIsNext() == jsoniter.ObjectValue {
		obj := &STH{}
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			obj.setRaw(key, it.SkipAndReturnBytes())
			return it.Error == nil
		})
		if iter.Error == nil {
			sth = obj
		}
	}
	return
}

func (sth *STH) setRaw(key string, value []byte) {
	value = bytes.TrimSpace(value)
	for i := range sth.fields {
		if sth.fields[i].key == key {
			sth.fields[i].value = value
			return
		}
	}
	sth.fields = append(sth.fields, sthField{key: key, value: value})
}

// Set assigns the JSON encoding of v to key. An existing member is
// replaced in place, a new one is appended.
func (sth *STH) Set(key string, v any) (err error) {
	var b []byte
	if b, err = jsonAPI.Marshal(v); err == nil {
		sth.setRaw(key, b)
	}
	return
}

// Raw returns the JSON text of the member key, or nil if not present.
func (sth *STH) Raw(key string) (b []byte) {
	if sth != nil {
		for _, f := range sth.fields {
			if f.key == key {
				return f.value
			}
		}
	}
	return
}

// Keys returns the member names in order.
func (sth *STH) Keys() (keys []string) {
	if sth != nil {
		for _, f := range sth.fields {
			keys = append(keys, f.key)
		}
	}
	return
}

// String returns the string value of key, or "" if it is missing or not a string.
func (sth *STH) String(key string) (s string) {
	if raw := sth.Raw(key); len(raw) > 0 && raw[0] == '"' {
		_ = jsonAPI.Unmarshal(raw, &s)
	}
	return
}

func (sth *STH) MarshalJSON() ([]byte, error) {
	b := []byte{'{'}
	for i, f := range sth.fields {
		if i > 0 {
			b = append(b, ',')
		}
		key, err := jsonAPI.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		b = append(b, key...)
		b = append(b, ':')
		b = append(b, f.value...)
	}
	b = append(b, '}')
	return b, nil
}
