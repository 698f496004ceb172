package handler

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNameOnce sync.Once

// UseJSONFieldNames makes gin's validator report fields by their JSON name.
func UseJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// ValidationDetails converts a binding error into per-field reasons.
func ValidationDetails(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, FieldError{
				Field:  fe.Field(),
				Reason: reasonForTag(fe.Tag()),
			})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{
			Field:  typeErr.Field,
			Reason: "must be a " + typeErr.Type.String(),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []FieldError{{Field: "body", Reason: "malformed JSON"}}
	}

	if errors.Is(err, io.EOF) {
		return []FieldError{{Field: "body", Reason: "field required"}}
	}

	return []FieldError{{Field: "body", Reason: err.Error()}}
}

func reasonForTag(tag string) string {
	switch tag {
	case "required":
		return "field required"
	default:
		return "failed " + tag + " validation"
	}
}
