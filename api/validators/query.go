package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

const maxPage = 1 << 20

func queryError(key, message string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	details["field"] = key
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}

// ParseQueryInt reads an optional integer query parameter bounded to [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, "query parameter must be numeric", nil)
	}
	if value < min || value > max {
		return 0, queryError(key, "query parameter out of range", map[string]any{"min": min, "max": max})
	}
	return value, nil
}

// ParseQueryString returns the sanitized value of key, rejecting anything longer than maxLen.
func ParseQueryString(r *http.Request, key string, maxLen int) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if len(raw) > maxLen {
		return "", queryError(key, "query parameter too long", map[string]any{"max": maxLen})
	}
	return SanitizeString(raw, maxLen), nil
}

// ParseQueryLimit reads "limit" with the shared pagination bounds.
func ParseQueryLimit(r *http.Request) (int, error) {
	return ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
}

// ParseQueryPage reads "page" and "limit" for offset-paginated listings.
func ParseQueryPage(r *http.Request) (pagination.Page, error) {
	page, err := ParseQueryInt(r, "page", 1, 1, maxPage)
	if err != nil {
		return pagination.Page{}, err
	}
	limit, err := ParseQueryLimit(r)
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.Page{Page: page, Limit: limit}, nil
}
