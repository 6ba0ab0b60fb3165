package pagination

import (
	"net/http"
	"strconv"

	liberrors "github.com/tendant/simple-library/pkg/errors"
)

// Defaults holds the limit applied when a request omits it, and the cap.
type Defaults struct {
	Limit    int
	MaxLimit int
}

// ParseParams reads offset and limit from the query string.
// Missing values fall back to 0 and d.Limit; limit is capped at d.MaxLimit.
func ParseParams(r *http.Request, d Defaults) (offset, limit int, err error) {
	q := r.URL.Query()

	limit = d.Limit
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, liberrors.InvalidInput("limit", "must be an integer")
		}
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, liberrors.InvalidInput("offset", "must be an integer")
		}
	}
	if d.MaxLimit > 0 && limit > d.MaxLimit {
		limit = d.MaxLimit
	}
	return offset, limit, nil
}
