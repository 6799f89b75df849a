package pagination

import (
	"net/url"
	"strconv"
)

// Params is a limit/offset window.
type Params struct {
	Limit  int
	Offset int
}

// ParseQuery reads limit and offset from query values. Missing or
// non-numeric values fall back to defaults; the result is always normalized.
func ParseQuery(q url.Values, cfg Config) Params {
	var p Params
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		p.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		p.Offset = v
	}
	return p.WithDefaults(cfg)
}
