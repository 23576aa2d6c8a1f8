package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs
// within a context. A negotiation worker enriches its context once and
// every slog call below it carries the listing/session/buyer identifiers.
type LogFields struct {
	ListingID *int64
	SessionID *int64
	DealID    *int64
	BuyerID   *int64
	SellerID  *int64
	Component string // e.g. "market.scheduler", "market.reaper"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values
// taking precedence. Timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.ListingID != nil {
		result.ListingID = next.ListingID
	}
	if next.SessionID != nil {
		result.SessionID = next.SessionID
	}
	if next.DealID != nil {
		result.DealID = next.DealID
	}
	if next.BuyerID != nil {
		result.BuyerID = next.BuyerID
	}
	if next.SellerID != nil {
		result.SellerID = next.SellerID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value, for inline LogFields.
func Ptr[T any](v T) *T {
	return &v
}
