// internal/app/system/httpjson/httpjson.go

// Package httpjson writes JSON responses and maps apperr kinds to HTTP
// status codes. It is the only place in the codebase that knows which kind
// becomes which status code.
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes the `{"message": …}` envelope used for all non-payload
// responses.
func Message(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"message": msg})
}

// Error maps err to an HTTP status and writes the message envelope.
// Unclassified errors are logged and reported as a generic 500 so internal
// details never reach the client.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindInvalidTransition:
		Message(w, http.StatusBadRequest, err.Error())
	case apperr.KindNotFound:
		Message(w, http.StatusNotFound, err.Error())
	case apperr.KindForbidden:
		Message(w, http.StatusForbidden, err.Error())
	case apperr.KindConflict:
		Message(w, http.StatusConflict, err.Error())
	default:
		if log != nil {
			log.Error("internal error", zap.Error(err))
		}
		Message(w, http.StatusInternalServerError, "server error")
	}
}

// Decode reads a JSON request body into dst. It returns a Validation error
// on malformed JSON so handlers can pass it straight to Error.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}
