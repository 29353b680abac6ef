// Package server provides the HTTP server for the petition site.
//
// The server wires a gorilla/mux router behind an access log and panic
// recovery. Every routed request passes through the middleware chain in
// order: request id, request deadline, session resolution. Handlers read
// the caller from the request context via the identity package.
//
// # Server Setup
//
//	srv := server.NewServer(server.Options{...})
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// Endpoints are registered via the endpoints subpackage:
//
//   - / - registration form and submission
//   - /thanks - confirmation page
//   - /admin - login form or the signature listing
//   - /login, /logout - session management
//   - /{id} - signature deletion
//   - /status - health check
package server
