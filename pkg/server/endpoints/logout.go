package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
)

func RegisterLogoutEndpoint(s *server.Server) {
	s.Router.HandleFunc("/logout", handleLogout(s)).Methods("GET", "POST")
}

func handleLogout(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Gate.Logout(r.Context(), caller(r).SessionID); err != nil {
			s.Fail(w, r, err)
			return
		}

		s.Cookies.Clear(w)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
