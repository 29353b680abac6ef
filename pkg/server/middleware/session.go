package middleware

import (
	"net"
	"net/http"

	"github.com/doodlesbykumbi/petition-in-go/pkg/auth"
	"github.com/doodlesbykumbi/petition-in-go/pkg/identity"
)

// ErrorHandler renders a failure that prevented a request from proceeding
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Session reads the session cookie once, resolves it through the gate and
// stores the resulting identity in the request context. Handlers downstream
// read the identity, never the cookie. A cookie whose session is gone is
// cleared.
func Session(gate *auth.Gate, cookies *Cookies, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sessionID := cookies.Read(r)

			res, err := gate.Resolve(ctx, sessionID)
			if err != nil {
				onError(w, r, err)
				return
			}

			if sessionID != "" && res.SessionID == "" {
				cookies.Clear(w)
			}

			id := identity.Anonymous(ClientIP(r)).
				WithSession(res.SessionID).
				WithRequestID(RequestIDFrom(ctx))
			if res.Authenticated() {
				id.WithPrincipal(res.Principal)
			}

			next.ServeHTTP(w, r.WithContext(identity.Set(ctx, id)))
		})
	}
}

// ClientIP returns the host part of the request's remote address
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
