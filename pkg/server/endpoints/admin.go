package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/petition-in-go/pkg/listing"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
	"github.com/doodlesbykumbi/petition-in-go/pkg/views"
)

// RegisterAdminEndpoints registers the administrator page
func RegisterAdminEndpoints(s *server.Server) {
	s.Router.HandleFunc("/admin", handleAdmin(s)).Methods("GET")
	s.Router.HandleFunc("/admin/", handleAdmin(s)).Methods("GET")
}

// handleAdmin shows the login form to anonymous callers and the signature
// listing to authenticated ones.
func handleAdmin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := caller(r)
		w.Header().Set("Cache-Control", "no-store")

		if !id.Authenticated() {
			if wantsJSON(r) {
				respondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			messages, err := s.Gate.Messages(ctx, id.SessionID)
			if err != nil {
				s.Fail(w, r, err)
				return
			}

			page := views.LoginPage{Page: s.Page(r, "Log in")}
			if n := len(messages); n > 0 {
				page.Message = messages[n-1]
			}
			s.Render(w, r, http.StatusOK, "login", page)
			return
		}

		query := r.URL.Query()
		window := listing.ParseWindow(query.Get("offset"), query.Get("limit"), s.ListLimitDefault, s.ListLimitMax)

		result, err := s.Lister.List(ctx, window)
		if err != nil {
			s.Fail(w, r, err)
			return
		}

		if wantsJSON(r) {
			respondWithJSON(w, http.StatusOK, result)
			return
		}

		s.Render(w, r, http.StatusOK, "admin", views.AdminPage{
			Page:   s.Page(r, "Signatures"),
			Result: result,
		})
	}
}
