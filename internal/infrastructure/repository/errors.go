package repository

import (
	"errors"
	"fmt"
	"strings"

	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

// translateError maps driver-specific unique violations to domainRepo.ErrDuplicate
func translateError(err error) error {
	if isDuplicateKeyErr(err) {
		return fmt.Errorf("%w: %v", domainRepo.ErrDuplicate, err)
	}
	return err
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	// PostgreSQL (23505)
	if strings.Contains(msg, "duplicate key value violates unique constraint") {
		return true
	}
	// SQLite (2067)
	return strings.Contains(msg, "UNIQUE constraint failed")
}
