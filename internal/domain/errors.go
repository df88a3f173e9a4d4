package domain

import "errors"

// Failures surfaced to the user. All are terminal for the operation that
// raised them and never for the session.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrLocationTimeout     = errors.New("location fetch timed out")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrGeocodeFailure      = errors.New("geocode failed")
	ErrDirectionsFailure   = errors.New("directions failed")
)

// ErrorKind names an alertable failure.
type ErrorKind string

const (
	KindPermissionDenied    ErrorKind = "permission_denied"
	KindLocationTimeout     ErrorKind = "location_timeout"
	KindLocationUnavailable ErrorKind = "location_unavailable"
	KindGeocodeFailure      ErrorKind = "geocode_failure"
	KindDirectionsFailure   ErrorKind = "directions_failure"
)

// Alert is a blocking user-facing message with a single acknowledgement action.
type Alert struct {
	Kind    ErrorKind
	Title   string
	Message string
}

// AlertFor maps a failure to the alert shown for it.
func AlertFor(err error) (Alert, bool) {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return Alert{
			Kind:    KindPermissionDenied,
			Title:   "Insufficient permissions",
			Message: "You need to grant location permissions to use this feature.",
		}, true
	case errors.Is(err, ErrLocationTimeout):
		return Alert{
			Kind:    KindLocationTimeout,
			Title:   "Could not fetch location",
			Message: "Please try again or pick a location on the map.",
		}, true
	case errors.Is(err, ErrLocationUnavailable):
		return Alert{
			Kind:    KindLocationUnavailable,
			Title:   "Could not fetch location",
			Message: "Please try again or pick a location on the map.",
		}, true
	case errors.Is(err, ErrGeocodeFailure):
		return Alert{
			Kind:    KindGeocodeFailure,
			Title:   "Could not find that place",
			Message: "Please try another search.",
		}, true
	case errors.Is(err, ErrDirectionsFailure):
		return Alert{
			Kind:    KindDirectionsFailure,
			Title:   "Unable to generate route to location",
			Message: "Please try again.",
		}, true
	}
	return Alert{}, false
}
