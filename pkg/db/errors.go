package db

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether the error is a Postgres unique violation.
// When constraintName is provided, the violation must reference that
// constraint specifically.
func IsUniqueViolation(err error, constraintName string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != uniqueViolationCode {
		return false
	}
	if constraintName != "" {
		return pqErr.Constraint == constraintName
	}
	return true
}
