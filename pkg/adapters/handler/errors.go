package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
)

// FieldError is a validation failure on one request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the JSON body of every failed API call.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func newHTTPError(status int, message string, fields ...FieldError) *HTTPError {
	return &HTTPError{
		Code:    strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_")),
		Message: message,
		Status:  status,
		Errors:  fields,
	}
}

// toHTTPError maps domain and unexpected errors onto API errors.
func toHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, domain.ErrAliasTaken):
		return newHTTPError(http.StatusConflict, "Alias already in use",
			FieldError{Field: "alias", Error: "is already in use"})
	case errors.Is(err, domain.ErrLinkNotFound):
		return newHTTPError(http.StatusNotFound, "Link not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return newHTTPError(http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, domain.ErrInvalidSession):
		return newHTTPError(http.StatusUnauthorized, "Unauthorized")
	default:
		return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := toHTTPError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	writeJSON(w, httpErr.Status, httpErr)
}
