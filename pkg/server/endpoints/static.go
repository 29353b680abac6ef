package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
	"github.com/doodlesbykumbi/petition-in-go/pkg/views"
)

// RegisterStaticFiles serves the embedded stylesheets
func RegisterStaticFiles(srv *server.Server) {
	// views.Static is rooted so request paths map directly onto it
	srv.Router.PathPrefix("/css/").Handler(http.FileServer(http.FS(views.Static())))

	srv.Router.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}
