package model

import "errors"

var (
	// Authentication errors. ErrInvalidCredentials deliberately covers both
	// unknown identity and wrong password so callers cannot enumerate
	// usernames.
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidSecondFactorCode = errors.New("invalid second factor code")

	// Token errors
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrWrongTokenKind   = errors.New("wrong token kind")
	ErrTokenAlreadyUsed = errors.New("token already used")

	// Access control errors
	ErrAccessDenied = errors.New("access denied")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Note/share errors
	ErrNoteNotFound  = errors.New("note not found")
	ErrShareNotFound = errors.New("share grant not found")
	ErrSelfShare     = errors.New("cannot share a note with its owner")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
