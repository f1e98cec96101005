package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrHotelNotFound    = errors.New("hotel not found")
	ErrMalformedCommand = errors.New("malformed command")
	ErrMalformedDate    = errors.New("malformed date")
	ErrMalformedInteger = errors.New("malformed integer")
)

// IsQueryError reports whether err is a caller mistake rather than an
// infrastructure failure.
func IsQueryError(err error) bool {
	return errors.Is(err, ErrHotelNotFound) ||
		errors.Is(err, ErrMalformedCommand) ||
		errors.Is(err, ErrMalformedDate) ||
		errors.Is(err, ErrMalformedInteger)
}
