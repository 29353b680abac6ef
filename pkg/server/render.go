package server

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/doodlesbykumbi/petition-in-go/pkg/identity"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/petition-in-go/pkg/views"
)

// Page returns the layout data for the caller of r
func (s *Server) Page(r *http.Request, title string) views.Page {
	page := views.Page{Title: title}
	if id, ok := identity.Get(r.Context()); ok {
		page.Principal = id.Username()
	}
	return page
}

// Render writes page name with the given status. A template failure
// becomes a plain 500 since nothing has been written yet.
func (s *Server) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.Views.Render(&buf, name, data); err != nil {
		log.Printf("request %s: %v", middleware.RequestIDFrom(r.Context()), err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderStatus writes the error page for status
func (s *Server) RenderStatus(w http.ResponseWriter, r *http.Request, status int) {
	s.Render(w, r, status, "error", views.ErrorPage{
		Page:   s.Page(r, http.StatusText(status)),
		Status: status,
	})
}

// Fail reports err to the client without its detail. A request that ran out
// of time gets 503 with Retry-After, anything else 500.
func (s *Server) Fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.RequestIDFrom(r.Context())

	if errors.Is(err, context.DeadlineExceeded) {
		log.Printf("request %s: deadline exceeded: %v", requestID, err)
		w.Header().Set("Retry-After", "1")
		s.RenderStatus(w, r, http.StatusServiceUnavailable)
		return
	}

	log.Printf("request %s: %v", requestID, err)
	s.RenderStatus(w, r, http.StatusInternalServerError)
}
