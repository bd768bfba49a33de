package handlers

import (
	"net/url"
	"strconv"

	"github.com/ukydev/fleet-crm/internal/apperr"
)

// queryInt parses an optional integer parameter; absent means 0.
func queryInt(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Validation("invalid query parameter", map[string]string{key: "must be a number"})
	}
	return n, nil
}

// queryBool parses an optional boolean parameter; absent means nil.
func queryBool(q url.Values, key string) (*bool, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, apperr.Validation("invalid query parameter", map[string]string{key: "must be true or false"})
	}
	return &b, nil
}
