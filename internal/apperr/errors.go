package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrTitleConflict    = errors.New("title conflict")
	ErrInvalidTitle     = errors.New("invalid title")
	ErrStoreUnavailable = errors.New("store unavailable")
)
