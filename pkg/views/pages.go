package views

import (
	"github.com/doodlesbykumbi/petition-in-go/pkg/listing"
	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/registration"
)

// Page holds what the layout needs
type Page struct {
	Title string
	// Principal is the signed-in username, empty when anonymous
	Principal string
}

// IndexPage is the registration form with the latest signatures
type IndexPage struct {
	Page
	Form       registration.Form
	Errors     []registration.FieldError
	Signatures []model.Signature
	Total      int64
}

// LoginPage is the login form with at most one flash message
type LoginPage struct {
	Page
	Message string
}

// AdminPage is one page of the signature listing
type AdminPage struct {
	Page
	Result *listing.PageResult
}

// ErrorPage is shown for 404, 500 and 503 responses
type ErrorPage struct {
	Page
	Status int
}
