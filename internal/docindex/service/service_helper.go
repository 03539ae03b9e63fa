package service

import (
	"errors"

	"docindex/internal/docindex/repository"
)

// mapRepoError translates repository sentinels into service errors.
// Anything else is returned unchanged and surfaces as an internal error.
func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrVersionConflict), errors.Is(err, repository.ErrDuplicate):
		return ErrConflict
	case errors.Is(err, repository.ErrInvalidArgument):
		return ErrBadRequest
	}
	return err
}
