package domain

import "errors"

var (
	// ErrFetch is the only failure kind of the status fetch. Transport
	// errors, non-2xx responses and malformed payloads all wrap it.
	ErrFetch = errors.New("failed to fetch safety statuses")

	ErrTrigger           = errors.New("failed to trigger earthquake")
	ErrInvalidEarthquake = errors.New("invalid earthquake request")
	ErrDuplicateUser     = errors.New("duplicate user id")
)
