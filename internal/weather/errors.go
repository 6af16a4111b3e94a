package weather

import "errors"

var (
	// ErrProviderUnavailable indicates the external weather service could not
	// be reached or kept failing past the retry budget.
	ErrProviderUnavailable = errors.New("weather provider unavailable")

	// ErrProviderResponseInvalid indicates the provider answered but the
	// payload lacked required fields or could not be decoded.
	ErrProviderResponseInvalid = errors.New("invalid weather provider response")

	// ErrCityNotFound indicates the requested city is not in the registry.
	ErrCityNotFound = errors.New("city not found")

	// ErrInvalidDateFormat indicates a malformed date filter. It is returned
	// before any store access.
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")

	// ErrInvalidMonth indicates a month filter outside 1-12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrNoData indicates a well-formed query matched nothing. It is a
	// distinct signal from a validation failure.
	ErrNoData = errors.New("no data for the requested filters")
)
