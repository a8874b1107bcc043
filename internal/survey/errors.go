package survey

import "errors"

var (
	// ErrDataUnavailable is returned when the survey file does not exist.
	ErrDataUnavailable = errors.New("survey data unavailable")

	// ErrMissingColumn is returned when a required column is absent from the table.
	ErrMissingColumn = errors.New("missing column")

	// ErrMalformed is returned when the survey file exists but cannot be parsed.
	ErrMalformed = errors.New("malformed survey file")
)
