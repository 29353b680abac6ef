package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/petition-in-go/pkg/auth"
	"github.com/doodlesbykumbi/petition-in-go/pkg/listing"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/petition-in-go/pkg/views"
)

// Options holds the collaborators and limits a Server is built from
type Options struct {
	Addr string

	Gate       *auth.Gate
	Deletion   *auth.DeletionGate
	Lister     *listing.Lister
	Signatures store.SignaturesStore
	Health     store.HealthStore
	Views      *views.Renderer
	Cookies    *middleware.Cookies

	RequestTimeout   time.Duration
	ListLimitDefault int
	ListLimitMax     int
}

type Server struct {
	Router *mux.Router

	Gate       *auth.Gate
	Deletion   *auth.DeletionGate
	Lister     *listing.Lister
	Signatures store.SignaturesStore
	Health     store.HealthStore
	Views      *views.Renderer
	Cookies    *middleware.Cookies

	ListLimitDefault int
	ListLimitMax     int

	srv *http.Server
}

func NewServer(opts Options) *Server {
	router := mux.NewRouter()

	s := &Server{
		Router:           router,
		Gate:             opts.Gate,
		Deletion:         opts.Deletion,
		Lister:           opts.Lister,
		Signatures:       opts.Signatures,
		Health:           opts.Health,
		Views:            opts.Views,
		Cookies:          opts.Cookies,
		ListLimitDefault: opts.ListLimitDefault,
		ListLimitMax:     opts.ListLimitMax,
	}
	if s.ListLimitDefault <= 0 {
		s.ListLimitDefault = listing.DefaultLimit
	}
	if s.ListLimitMax <= 0 {
		s.ListLimitMax = listing.MaxLimit
	}

	router.Use(
		middleware.RequestID,
		middleware.Deadline(opts.RequestTimeout),
		middleware.Session(opts.Gate, opts.Cookies, s.Fail),
	)

	s.srv = &http.Server{
		Handler: s.Handler(),
		Addr:    opts.Addr,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return s
}

// Handler returns the router wrapped in the access log and panic recovery
func (s *Server) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))
	return handlers.LoggingHandler(os.Stdout, recovery(s.Router))
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
