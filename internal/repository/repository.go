package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ZeroUUID marks an entry whose owning group identity was never resolved.
// Legacy rule dumps predate the group_id field; the backfill migration
// rewrites these rows.
const ZeroUUID = "00000000-0000-0000-0000-000000000000"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
