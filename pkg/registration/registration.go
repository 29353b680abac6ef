// Package registration validates submitted signature forms.
package registration

import (
	"strings"
	"unicode/utf8"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
)

// Form field names
const (
	FieldName       = "name"
	FieldNationalID = "nationalId"
	FieldComment    = "comment"
	FieldAnonymous  = "anonymous"
)

const (
	MaxNameLength    = 128
	MaxCommentLength = 400
	NationalIDLength = 10
)

// FieldError describes an invalid form field
type FieldError struct {
	Field   string
	Message string
}

// Form is a submitted signature
type Form struct {
	Name       string
	NationalID string
	Comment    string
	Anonymous  bool
}

// Normalize trims whitespace and strips the separator from the national id
// (123456-7890 becomes 1234567890).
func (f Form) Normalize() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Comment = strings.TrimSpace(f.Comment)
	f.NationalID = strings.ReplaceAll(strings.TrimSpace(f.NationalID), "-", "")
	return f
}

// Validate returns one error per invalid field, in form order.
// The form should be normalized first.
func (f Form) Validate() []FieldError {
	var errs []FieldError

	if f.Name == "" {
		errs = append(errs, FieldError{Field: FieldName, Message: "Name must not be empty"})
	} else if utf8.RuneCountInString(f.Name) > MaxNameLength {
		errs = append(errs, FieldError{Field: FieldName, Message: "Name must be at most 128 characters"})
	}

	if len(f.NationalID) != NationalIDLength || strings.IndexFunc(f.NationalID, notDigit) >= 0 {
		errs = append(errs, FieldError{Field: FieldNationalID, Message: "National id must be 10 digits, for example 000000-0000"})
	}

	if utf8.RuneCountInString(f.Comment) > MaxCommentLength {
		errs = append(errs, FieldError{Field: FieldComment, Message: "Comment must be at most 400 characters"})
	}

	return errs
}

// Signature converts a valid form into a signature record
func (f Form) Signature() *model.Signature {
	return &model.Signature{
		Name:       f.Name,
		NationalID: f.NationalID,
		Comment:    f.Comment,
		Anonymous:  f.Anonymous,
	}
}

// DuplicateError is reported when the national id has already signed
var DuplicateError = FieldError{Field: FieldNationalID, Message: "This national id has already signed the petition"}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}

// IsInvalid reports whether field appears in errs
func IsInvalid(field string, errs []FieldError) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
