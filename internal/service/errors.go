package service

import "errors"

// Terminal errors surfaced to the caller. None of them is retried, the
// handler layer maps each to its HTTP status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateIdentity  = errors.New("email or username already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrSelfActionDenied   = errors.New("admins cannot block themselves")
	ErrNotPromotable      = errors.New("only users can be promoted")
	ErrTooManyTags        = errors.New("a photo can have at most 5 tags")
)
