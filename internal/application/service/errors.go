package service

import (
	"errors"

	"github.com/sangkips/gstbill-api/internal/domain/repository"
)

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
