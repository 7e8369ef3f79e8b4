package httpx

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultPageLimit = 25
	MaxPageLimit     = 200
	// MaxPageOffset keeps offsets within the int4 range query parameters use.
	MaxPageOffset = math.MaxInt32
)

// Pagination reads ?limit= and ?offset= from the query string. Missing or
// malformed values fall back to defaults; limit is capped at MaxPageLimit
// and offset at MaxPageOffset.
func Pagination(r *http.Request) (limit, offset int) {
	limit = queryInt(r, "limit", DefaultPageLimit)
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	offset = queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	if offset > MaxPageOffset {
		offset = MaxPageOffset
	}
	return limit, offset
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
