package service

import "errors"

var (
	// ErrNotStarted is returned by queries issued before Start succeeded.
	ErrNotStarted = errors.New("service not started")
	// ErrNoSource indicates a reload without a configured data source.
	ErrNoSource = errors.New("no data source configured")
	// ErrUnknownCategory rejects a filter naming no configured band.
	ErrUnknownCategory = errors.New("unknown category")
)
