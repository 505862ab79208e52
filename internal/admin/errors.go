package admin

import "errors"

// ErrInvalid matches every validation failure, so callers can map the whole
// family to one response.
var ErrInvalid = errors.New("invalid request")

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("not found")

// ErrWrongPassword is returned when the current password does not match.
var ErrWrongPassword = errors.New("current password is incorrect")

// ValidationError is a user-facing rejection. The stored state is unchanged
// whenever one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is reports ErrInvalid as a match.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

func invalid(msg string) *ValidationError { return &ValidationError{Msg: msg} }

// Ads
var (
	ErrAdFieldsRequired = invalid("ad text and image are required")
	ErrAdTextRequired   = invalid("ad text is required")
	ErrNotAnImage       = invalid("please upload an image file")
	ErrImageTooLarge    = invalid("image must not exceed 5MB")
)

// Users
var (
	ErrUsernameRequired    = invalid("username is required")
	ErrUsernameTaken       = invalid("username already exists")
	ErrUnknownRole         = invalid("unknown role")
	ErrSuperadminProtected = invalid("the superadmin account cannot be deleted or demoted")
	ErrLastAdmin           = invalid("at least one admin account must remain")
)

// Media
var (
	ErrNoFiles       = invalid("no files uploaded")
	ErrTitleRequired = invalid("title is required")
)

// Settings
var (
	ErrPasswordFieldsRequired = invalid("all password fields are required")
	ErrPasswordMismatch       = invalid("new password and confirmation do not match")
	ErrPasswordTooShort       = invalid("password must be at least 6 characters")
)
