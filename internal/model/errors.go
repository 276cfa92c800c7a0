package model

import "errors"

var (
	// ErrAttemptNotFound is returned when an attempt does not exist or belongs to another user.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAlreadySubmitted is returned when the completion claim finds the attempt no longer in progress.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrAttemptNotGradable is returned for attempts in a terminal non-completed state (timed out, abandoned).
	ErrAttemptNotGradable = errors.New("attempt is not gradable")
	// ErrPackageNotFound indicates the attempt's exam package could not be loaded.
	ErrPackageNotFound = errors.New("exam package not found")
)
