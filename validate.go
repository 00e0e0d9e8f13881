package honeybee

import (
	"regexp"
)

var base64Re = regexp.MustCompile(`^([A-Za-z0-9+/]{4})*([A-Za-z0-9+/]{4}|[A-Za-z0-9+/]{3}=|[A-Za-z0-9+/]{2}==)$`)

// IsBase64 reports whether s is non-empty, padded, standard alphabet base64.
func IsBase64(s string) bool {
	return base64Re.MatchString(s)
}

func isJSONInteger(raw []byte) bool {
	if len(raw) > 0 && raw[0] == '-' {
		raw = raw[1:]
	}
	if len(raw) == 0 {
		return false
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isJSONBase64(raw []byte) (ok bool) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if jsonAPI.Unmarshal(raw, &s) == nil {
			ok = IsBase64(s)
		}
	}
	return
}

// IsSTH reports whether sth has the structural shape of a get-sth response
// tagged with a log_id. Values are not range checked.
func IsSTH(sth *STH) bool {
	return sth != nil &&
		isJSONInteger(sth.Raw("sth_version")) &&
		isJSONInteger(sth.Raw("tree_size")) &&
		isJSONInteger(sth.Raw("timestamp")) &&
		isJSONBase64(sth.Raw("sha256_root_hash")) &&
		isJSONBase64(sth.Raw("tree_head_signature")) &&
		isJSONBase64(sth.Raw("log_id"))
}

// TagSTH parses a get-sth response body and tags it with the url and log_id
// of log, forcing sth_version to 0. The log_id is copied as it appears in the
// log list, so a log list entry with a bad or missing log_id yields no STH.
// It returns nil and false if the body is not a JSON object or the tagged
// object fails IsSTH.
func TagSTH(raw []byte, log *Log) (sth *STH, ok bool) {
	if sth, _ = tagSTH(raw, log); sth != nil {
		ok = true
	}
	return
}

// tagSTH is TagSTH, but fails with ErrMissingLogID if raw is an object and
// log has no log_id.
func tagSTH(raw []byte, log *Log) (sth *STH, err error) {
	if sth = ParseSTH(raw); sth != nil {
		if len(log.ID) == 0 {
			return nil, ErrMissingLogID
		}
		sth.setRaw("url", mustMarshal(log.URL))
		sth.setRaw("sth_version", []byte("0"))
		sth.setRaw("log_id", log.ID)
		if !IsSTH(sth) {
			sth = nil
		}
	}
	return
}

func mustMarshal(s string) []byte {
	b, err := jsonAPI.Marshal(s)
	if err != nil {
		panic(err)
	}
	return b
}
