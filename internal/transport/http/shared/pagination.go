package shared

import (
	"net/http"
	"strconv"
)

// Pagination is the limit/offset window forwarded to the upstream API.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset from the query string,
// falling back to defaultLimit and clamping to maxLimit. Invalid or
// negative values are ignored rather than rejected so that list pages
// always render.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()
	p := Pagination{Limit: defaultLimit}
	if v := positiveInt(q.Get("limit")); v > 0 {
		p.Limit = v
	}
	if v := positiveInt(q.Get("offset")); v > 0 {
		p.Offset = v
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func positiveInt(raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
