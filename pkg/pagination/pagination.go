// Package pagination provides a generic page query helper on top of GORM.
// Callers hand it a prepared *gorm.DB (filters and preloads already applied)
// together with the client-supplied options; it computes the total count and
// fetches the requested page.
package pagination

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	DefaultPage  = 1
)

// ErrInvalidOptions marks malformed client-supplied options, as opposed to
// query execution failures. Callers match it with errors.Is to report a
// client error.
var ErrInvalidOptions = errors.New("invalid pagination options")

// Options are the client-facing paging knobs. SortBy takes a comma-separated
// list of "field:asc|desc" entries, ProjectBy a comma-separated list of
// columns to select. Zero values fall back to the defaults above.
type Options struct {
	SortBy    string
	ProjectBy string
	Limit     int
	Page      int
}

// Result is one page of records plus its page metadata.
type Result[T any] struct {
	Results      []T   `json:"results"`
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
}

// Paginate runs a counted page query against db. The count is taken before
// sorting, projection and offsets are applied.
func Paginate[T any](db *gorm.DB, opts Options) (*Result[T], error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := opts.Page
	if page <= 0 {
		page = DefaultPage
	}

	var total int64
	if err := db.Session(&gorm.Session{}).Model(new(T)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	query := db.Session(&gorm.Session{})
	if order, err := orderClause(opts.SortBy); err != nil {
		return nil, err
	} else if order != "" {
		query = query.Order(order)
	}
	if opts.ProjectBy != "" {
		columns := splitAndTrim(opts.ProjectBy)
		for _, column := range columns {
			if !identifierPattern.MatchString(column) {
				return nil, fmt.Errorf("%w: invalid column %q in projectBy", ErrInvalidOptions, column)
			}
		}
		query = query.Select(columns)
	}

	results := make([]T, 0, limit)
	if err := query.Limit(limit).Offset((page - 1) * limit).Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &Result[T]{
		Results:      results,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}

// identifierPattern restricts sort fields and projected columns to plain
// column names. Both end up interpolated into SQL, so anything beyond an
// identifier must be refused.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// orderClause turns "name:asc,price:desc" into "name asc, price desc".
// A bare field name sorts ascending.
func orderClause(sortBy string) (string, error) {
	if sortBy == "" {
		return "", nil
	}
	var clauses []string
	for _, part := range splitAndTrim(sortBy) {
		field, dir, found := strings.Cut(part, ":")
		if !found {
			dir = "asc"
		}
		if !identifierPattern.MatchString(field) {
			return "", fmt.Errorf("%w: invalid sort field %q in sortBy", ErrInvalidOptions, field)
		}
		dir = strings.ToLower(dir)
		if dir != "asc" && dir != "desc" {
			return "", fmt.Errorf("%w: invalid sort direction %q in sortBy", ErrInvalidOptions, dir)
		}
		clauses = append(clauses, field+" "+dir)
	}
	return strings.Join(clauses, ", "), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
