package store

import "errors"

// Sentinel errors for simple checks.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrNoKey         = errors.New("record has no transaction hash")
)
