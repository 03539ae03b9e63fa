package repository

import "errors"

var (
	// ErrInvalidArgument reports a programming or configuration mistake:
	// missing index coordinates, an entity without an id, a bad id value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIllegalState reports that a declared property could not be read.
	ErrIllegalState = errors.New("illegal state")

	ErrDuplicate       = errors.New("duplicate record")
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("version conflict")
)
