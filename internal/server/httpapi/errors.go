package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/taskmanager/internal/common"
)

const maxJSONBody = 1 << 20

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: "please authenticate"})
}

// writeError maps service errors to HTTP responses. Causes of 500s are
// logged and never sent to the client.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Message, Fields: verr.Fields})
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: common.ErrInvalidCredentials.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		writeUnauthorized(w)
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// decodeJSON reads a JSON body into v. Malformed input is reported as a
// validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return common.NewFieldError(typeErr.Field, "has the wrong type")
		case errors.As(err, &maxErr):
			return common.NewValidationError("request body too large")
		case errors.Is(err, io.EOF):
			return common.NewValidationError("request body is empty")
		default:
			return common.NewValidationError("malformed JSON body")
		}
	}
	return nil
}
