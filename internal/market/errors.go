package market

import "errors"

// Validation failures cross the public boundary as sentinel values,
// never as panics. Session-internal failures are recovered and surface
// later as a NO_DEAL terminal state on the session itself.
var (
	ErrNotFound             = errors.New("not found")
	ErrRoleMismatch         = errors.New("wrong role for operation")
	ErrInvalidName          = errors.New("name must not be empty")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrListingUnavailable   = errors.New("listing is not active")
	ErrDuplicateNegotiation = errors.New("buyer already negotiating this listing")
	ErrCapacityExceeded     = errors.New("maximum concurrent negotiations reached")
	ErrNotParty             = errors.New("user is not a party to this deal")
	ErrMarketClosed         = errors.New("market is shutting down")
)
