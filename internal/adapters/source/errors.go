package source

import "errors"

var (
	// ErrWorksheetNotFound is returned by a Source when the named worksheet does not exist.
	ErrWorksheetNotFound = errors.New("worksheet not found")
	// ErrFetch is returned when a worksheet could not be read after every attempt.
	ErrFetch = errors.New("fetch worksheet")
	// ErrUnavailable is returned when no worksheet of a load could be read.
	ErrUnavailable = errors.New("source unavailable")
)
