package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress contextKey = "client_ip"
	ctxKeyUserAgent contextKey = "client_ua"
	ctxKeySource    contextKey = "request_source"
)

// ContextWithClient records the caller's address and User-Agent for the
// audit trail.
func ContextWithClient(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyIPAddress, ip)
	return context.WithValue(ctx, ctxKeyUserAgent, userAgent)
}

// ContextWithSource tags the context with the surface a request came
// through, such as SourceForm or SourceAPI.
func ContextWithSource(ctx context.Context, source Source) context.Context {
	return context.WithValue(ctx, ctxKeySource, source)
}

// IPAddressFromContext returns the address set by ContextWithClient.
func IPAddressFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyIPAddress).(string)
	return v
}

// UserAgentFromContext returns the User-Agent set by ContextWithClient.
func UserAgentFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserAgent).(string)
	return v
}

// SourceFromContext returns the request source, SourceUnknown if unset.
func SourceFromContext(ctx context.Context) Source {
	if v, ok := ctx.Value(ctxKeySource).(Source); ok {
		return v
	}
	return SourceUnknown
}
