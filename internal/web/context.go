package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/synthdata/internal/core"
)

// requestContext tags the request context with the client and the surface
// the request came through, for the audit trail.
func requestContext(r *http.Request, source core.Source) context.Context {
	ctx := core.ContextWithClient(r.Context(), clientIP(r), r.UserAgent())
	return core.ContextWithSource(ctx, source)
}

// clientIP returns the caller's address without a port. RemoteAddr has
// already been rewritten by TrustedRealIP for trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
