package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"grapebd/g2g/internal/repository"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidQuantity   = errors.New("quantity must be a positive whole number")
	ErrInsufficientStock = repository.ErrInsufficientStock
	ErrInvalidTransition = errors.New("invalid gift status transition")
	ErrStatusConflict    = repository.ErrStatusConflict
	ErrSelfGift          = errors.New("cannot gift to yourself")
	ErrInactive          = errors.New("variety or round is not active")
	ErrInUse             = errors.New("still referenced, deactivate it instead")
	ErrProfileInactive   = errors.New("profile is not active")
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidCreds      = errors.New("invalid email or password")
	ErrSuspended         = errors.New("account suspended")
	ErrStorageDisabled   = errors.New("image storage is not configured")
	ErrTokenUnregistered = errors.New("push token unregistered")
)

// found maps gorm's not-found to ErrNotFound, wrapping with what was missing.
func found(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	return errors.Wrapf(err, "load %s", what)
}

func invalid(msg string) error {
	return errors.Wrap(ErrInvalidInput, msg)
}
