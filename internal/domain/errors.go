package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when a batch fetch against the status
	// source fails (network, auth, rate limit). It is never retried here.
	ErrSourceUnavailable = errors.New("status source unavailable")

	// ErrStatusNotFound is returned when a single-status lookup finds nothing.
	ErrStatusNotFound = errors.New("status not found")

	// ErrMalformedTimestamp is returned when an input timestamp cannot be
	// parsed. Fatal for the load operation that hit it.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrScrapeFailed is returned when the browser-based source fails to
	// load or parse a page.
	ErrScrapeFailed = errors.New("failed to scrape status")
)
