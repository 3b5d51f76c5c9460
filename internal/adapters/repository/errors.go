package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("employee not found")
	ErrInvalidLimit = errors.New("invalid list limit")
	ErrInvalidRange = errors.New("invalid score range")
)
