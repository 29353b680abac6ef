package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/petition-in-go/pkg/auth"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
)

// RegisterLoginEndpoints registers the login form target
func RegisterLoginEndpoints(s *server.Server) {
	s.Router.HandleFunc("/login", handleLogin(s)).Methods("POST")
	s.Router.Handle("/login", http.RedirectHandler("/admin", http.StatusFound)).Methods("GET")
}

// handleLogin always redirects to /admin. The session cookie is replaced on
// success and points at the session holding the flash message on failure.
func handleLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.RenderStatus(w, r, http.StatusBadRequest)
			return
		}

		id := caller(r)
		outcome, err := s.Gate.Login(r.Context(), auth.LoginRequest{
			SessionID: id.SessionID,
			Username:  r.PostFormValue("username"),
			Password:  r.PostFormValue("password"),
			ClientIP:  id.RemoteIP,
		})
		if err != nil {
			s.Fail(w, r, err)
			return
		}

		if err := s.Cookies.Write(w, outcome.SessionID); err != nil {
			s.Fail(w, r, err)
			return
		}

		http.Redirect(w, r, "/admin", http.StatusFound)
	}
}
