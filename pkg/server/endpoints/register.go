package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/middleware"
)

// RegisterAll registers all endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterStaticFiles(srv)
	RegisterRegistrationEndpoints(srv)
	RegisterAdminEndpoints(srv)
	RegisterLoginEndpoints(srv)
	RegisterLogoutEndpoint(srv)

	// Must come after the fixed paths
	RegisterDeleteEndpoint(srv)

	// Route middleware does not run for unmatched requests
	srv.Router.NotFoundHandler = middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.RenderStatus(w, r, http.StatusNotFound)
	}))
}
