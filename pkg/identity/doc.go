// Package identity carries the resolved caller of a request through its
// context.
//
// The session middleware reads the session cookie once, resolves it through
// the auth gate and stores the result here. Handlers read the Identity and
// never the cookie.
//
//	ctx = identity.Set(ctx, identity.Anonymous(ip).WithSession(sid))
//
//	id, ok := identity.Get(ctx)
//	if ok && id.Authenticated() { ... }
package identity
