package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/typegrid/typegrid/pkg/errors"
)

// errorPayload is the JSON body sent for failed requests.
type errorPayload struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps an error onto an HTTP status and JSON payload. Structured
// errors keep their code; everything else becomes INTERNAL_ERROR.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorPayload{
		Error: errorDetail{
			Code:    string(code),
			Message: errors.UserMessage(err),
		},
	})
}

// statusFor picks the HTTP status for an error code. The mapping follows the
// code naming convention: validation failures are client errors, conflicts
// are 409, missing resources are 404, everything else is a server fault.
func statusFor(code errors.Code) int {
	s := string(code)
	switch {
	case strings.HasPrefix(s, "INVALID_"), code == errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case strings.HasSuffix(s, "NOT_FOUND"), code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case strings.HasPrefix(s, "CONFLICT"):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into v with a size cap.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
