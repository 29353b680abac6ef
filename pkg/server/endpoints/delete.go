package endpoints

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/petition-in-go/pkg/auth"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
)

// RegisterDeleteEndpoint registers GET /{id}. Deletion is a plain link in
// the listing, so it is a GET.
func RegisterDeleteEndpoint(s *server.Server) {
	s.Router.HandleFunc("/{id:[0-9]+}", handleDelete(s)).Methods("GET")
}

// handleDelete redirects to /admin whatever the outcome. Unauthenticated
// callers end up on the login form. The session cookie is SameSite=Lax, so a
// link on another site would carry it; such requests never delete.
func handleDelete(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := caller(r)

		signatureID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			if !id.Authenticated() {
				http.Redirect(w, r, "/admin", http.StatusFound)
				return
			}
			s.RenderStatus(w, r, http.StatusNotFound)
			return
		}

		if foreignOrigin(r) {
			log.Printf("Refused cross-site delete of signature %d (request %s)", signatureID, id.RequestID)
			http.Redirect(w, r, "/admin", http.StatusFound)
			return
		}

		result, err := s.Deletion.DeleteByID(r.Context(), id.SessionID, uint(signatureID))
		if err != nil {
			s.Fail(w, r, err)
			return
		}
		if result == auth.Deleted {
			log.Printf("Signature %d deleted by %s", signatureID, id.Username())
		}

		http.Redirect(w, r, "/admin", http.StatusFound)
	}
}

// foreignOrigin reports whether the request was started from another site.
// Sec-Fetch-Site decides when the browser sends it; otherwise Origin or
// Referer must name this host. Requests carrying none of them (typed URL,
// bookmarks, non-browser clients) pass.
func foreignOrigin(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "same-origin", "none":
		return false
	case "":
	default:
		return true
	}

	for _, header := range []string{"Origin", "Referer"} {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		u, err := url.Parse(value)
		return err != nil || u.Host != r.Host
	}
	return false
}
