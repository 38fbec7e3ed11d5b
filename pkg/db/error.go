package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique-constraint violation.
// GORM only translates the error when the dialector has TranslateError
// enabled, so the driver-specific messages are matched as a fallback:
// postgres 23505, mysql 1062, and sqlite 2067.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}
