package auditcontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "audit_request_id"
	cashierKey   contextKey = "audit_cashier"
	usernameKey  contextKey = "audit_cashier_username"
	ipAddressKey contextKey = "audit_ip_address"
	userAgentKey contextKey = "audit_user_agent"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithCashier records the acting cashier's display name and username.
func WithCashier(ctx context.Context, displayName, username string) context.Context {
	if displayName != "" {
		ctx = context.WithValue(ctx, cashierKey, displayName)
	}
	if username != "" {
		ctx = context.WithValue(ctx, usernameKey, username)
	}
	return ctx
}

func CashierFromContext(ctx context.Context) (string, string) {
	displayName, _ := ctx.Value(cashierKey).(string)
	username, _ := ctx.Value(usernameKey).(string)
	return displayName, username
}

func WithIPAddress(ctx context.Context, ipAddress string) context.Context {
	if ipAddress == "" {
		return ctx
	}
	return context.WithValue(ctx, ipAddressKey, ipAddress)
}

func IPAddressFromContext(ctx context.Context) string {
	value, _ := ctx.Value(ipAddressKey).(string)
	return value
}

func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	if userAgent == "" {
		return ctx
	}
	return context.WithValue(ctx, userAgentKey, userAgent)
}

func UserAgentFromContext(ctx context.Context) string {
	value, _ := ctx.Value(userAgentKey).(string)
	return value
}
