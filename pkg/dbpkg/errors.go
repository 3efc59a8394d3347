package dbpkg

import (
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
)

// IsSerializationFailure reports whether err is a lock or serialization
// conflict that aborted the transaction (SQLSTATE 40001, 40P01, 55P03).
// Such failures never committed anything and are safe to retry.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	switch pqErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}

	return false
}

// IsUnavailable reports whether err indicates that the database itself
// cannot be reached (SQLSTATE class 08, bad connections).
func IsUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code.Class() == "08"
}
