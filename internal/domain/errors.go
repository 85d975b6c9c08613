package domain

import "errors"

var (
	ErrValidation     = errors.New("invalid argument")
	ErrNotFound       = errors.New("not found")
	ErrHydration      = errors.New("stored data could not be decoded")
	ErrPersistence    = errors.New("storage operation failed")
	ErrInvalidState   = errors.New("record has no id")
	ErrUnknownVariant = errors.New("unknown product variant")
)
