package garmin

import "errors"

var (
	// ErrAuthentication indicates Garmin rejected the credentials or the
	// session token has expired. Callers may reset the session and retry.
	ErrAuthentication = errors.New("garmin authentication failed")

	// ErrRateLimited indicates Garmin is throttling requests. Not retried
	// internally.
	ErrRateLimited = errors.New("garmin rate limit exceeded")

	// ErrNotFound indicates the requested resource has no data. Mappers treat
	// this as a normal empty result, not a failure.
	ErrNotFound = errors.New("garmin resource not found")

	// ErrMissingCredentials is returned when no email/password pair is configured.
	ErrMissingCredentials = errors.New("garmin credentials not configured")
)
