package domain

import "context"

// Service is the write-only audit sink consumed by the finance core.
// Implementations must never fail the calling operation: writes are
// fire-and-forget and errors are only logged.
type Service interface {
	Log(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any)
}
