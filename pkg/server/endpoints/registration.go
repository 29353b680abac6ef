package endpoints

import (
	"errors"
	"net/http"

	"github.com/doodlesbykumbi/petition-in-go/pkg/listing"
	"github.com/doodlesbykumbi/petition-in-go/pkg/registration"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/petition-in-go/pkg/views"
)

// RegisterRegistrationEndpoints registers the public signing form
func RegisterRegistrationEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleIndex(s)).Methods("GET")
	s.Router.HandleFunc("/", handleSign(s)).Methods("POST")
	s.Router.HandleFunc("/thanks", handleThanks(s)).Methods("GET")
}

func handleIndex(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderIndex(s, w, r, http.StatusOK, registration.Form{}, nil)
	}
}

func handleSign(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.RenderStatus(w, r, http.StatusBadRequest)
			return
		}

		form := registration.Form{
			Name:       r.PostFormValue(registration.FieldName),
			NationalID: r.PostFormValue(registration.FieldNationalID),
			Comment:    r.PostFormValue(registration.FieldComment),
			Anonymous:  r.PostFormValue(registration.FieldAnonymous) != "",
		}.Normalize()

		if errs := form.Validate(); len(errs) > 0 {
			renderIndex(s, w, r, http.StatusUnprocessableEntity, form, errs)
			return
		}

		err := s.Signatures.Create(r.Context(), form.Signature())
		if errors.Is(err, store.ErrDuplicate) {
			renderIndex(s, w, r, http.StatusUnprocessableEntity, form, []registration.FieldError{registration.DuplicateError})
			return
		}
		if err != nil {
			s.Fail(w, r, err)
			return
		}

		http.Redirect(w, r, "/thanks", http.StatusSeeOther)
	}
}

func renderIndex(s *server.Server, w http.ResponseWriter, r *http.Request, status int, form registration.Form, errs []registration.FieldError) {
	result, err := s.Lister.List(r.Context(), listing.Window{Offset: 0, Limit: s.ListLimitDefault})
	if err != nil {
		s.Fail(w, r, err)
		return
	}

	s.Render(w, r, status, "index", views.IndexPage{
		Page:       s.Page(r, "Sign the petition"),
		Form:       form,
		Errors:     errs,
		Signatures: result.Items,
		Total:      result.Total,
	})
}

func handleThanks(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Render(w, r, http.StatusOK, "thanks", s.Page(r, "Thank you"))
	}
}
