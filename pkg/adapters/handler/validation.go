package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
)

const maxBodyBytes = 1 << 20

var aliasPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// reservedAliases are shadowed by fixed routes and could never resolve.
var reservedAliases = map[string]bool{
	"api":         true,
	"auth":        true,
	"healthz":     true,
	"metrics":     true,
	"login":       true,
	"dashboard":   true,
	"favicon.ico": true,
}

// Validatable is implemented by request payloads.
type Validatable interface {
	Normalize()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("alias", func(fl validator.FieldLevel) bool {
		return aliasPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		return !reservedAliases[fl.Field().String()]
	})
	return v
}

// decodeAndValidate reads a JSON body into payload, normalizes it and runs the
// struct tag rules. Failures come back as 400 HTTPErrors.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, payload Validatable) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(payload); err != nil {
		if errors.Is(err, io.EOF) {
			return newHTTPError(http.StatusBadRequest, "Request body is required")
		}
		return newHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return newHTTPError(http.StatusBadRequest, "Request body must hold a single JSON object")
	}

	payload.Normalize()

	if err := validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		return newHTTPError(http.StatusBadRequest, "Validation failed", fieldErrors(verrs)...)
	}
	return nil
}

// ValidateLink normalizes in the way the API does and checks it against the
// link rules. The import command uses it for rows read from a file.
func ValidateLink(in domain.LinkInput) (domain.LinkInput, []FieldError) {
	req := LinkRequest{Alias: in.Alias, URL: in.URL, Title: in.Title}
	req.Normalize()

	if err := validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return req.input(), fieldErrors(verrs)
		}
		return req.input(), []FieldError{{Field: "link", Error: err.Error()}}
	}
	return req.input(), nil
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			msg = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
		case "email":
			msg = "must be a valid email address"
		case "url", "http_url":
			msg = "must be a valid http or https URL"
		case "alias":
			msg = "may only contain lowercase letters, numbers and hyphens"
		case "notreserved":
			msg = "is reserved"
		default:
			msg = fe.Tag()
		}
		out = append(out, FieldError{Field: fe.Field(), Error: msg})
	}
	return out
}
