package foreca

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth indicates the credential exchange failed or the provider
	// rejected the bearer token. Fatal to the whole lookup flow.
	ErrAuth = errors.New("weather provider authorization failed")

	// ErrRateLimited maps the provider's HTTP 429 responses.
	ErrRateLimited = errors.New("weather provider rate limit exceeded")
)

// LocationNotFoundError is returned when a location search yields no
// results for the queried city name. Recoverable: the caller should ask
// for a different location.
type LocationNotFoundError struct {
	City string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("no weather locations found for %q", e.City)
}
