// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets values, services read them; keeping
// this package free of net/http lets services avoid transport imports.
//
// The acting principal is carried explicitly on the request context rather
// than through any process-global security state, so every service call sees
// exactly the identity the middleware resolved for that request.
package requestcontext

import "context"

type (
	principalKey struct{}
	requestIDKey struct{}
)

// PrincipalSystem is the sentinel identity used when no authenticated
// principal is present on the context.
const PrincipalSystem = "system"

// WithPrincipal injects the verified principal name into the context.
func WithPrincipal(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, principalKey{}, name)
}

// Principal retrieves the authenticated principal name from the context,
// or PrincipalSystem when none was set.
func Principal(ctx context.Context) string {
	if name, ok := ctx.Value(principalKey{}).(string); ok && name != "" {
		return name
	}
	return PrincipalSystem
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID retrieves the correlation ID, or "" if not set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
