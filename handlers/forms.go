package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PostRequest fields are pointers so a missing key (nil) differs from an empty
// value, which is accepted.
type PostRequest struct {
	Title *string `schema:"title" validate:"required"`
	Body  *string `schema:"body" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report form field names rather than struct field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validationMessage flattens validator errors into "title field is required" style text.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" field is required")
		default:
			msgs = append(msgs, fe.Field()+" field is invalid")
		}
	}

	return strings.Join(msgs, "; ")
}
