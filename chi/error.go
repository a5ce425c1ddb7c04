package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fwojciec/logofetch"
)

// UpstreamFailureMessage is shown for every server-side failure.
const UpstreamFailureMessage = "Unable to fetch logos from that URL right now. Please verify the URL and try again."

// ErrorResponse is the JSON body of every error. Details and StatusCode are
// only populated outside production.
type ErrorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	logofetch.EINVALID:      http.StatusBadRequest,
	logofetch.ENOTFOUND:     http.StatusNotFound,
	logofetch.EUNAUTHORIZED: http.StatusUnauthorized,
	logofetch.EUNAVAILABLE:  http.StatusInternalServerError,
	logofetch.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error response. Client errors carry their
// message; server errors get a generic one.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code := logofetch.ErrorCode(err)
	status := ErrorStatusCode(code)

	if status < http.StatusInternalServerError {
		writeJSON(w, status, ErrorResponse{Error: logofetch.ErrorMessage(err)})
		return
	}

	resp := ErrorResponse{Error: UpstreamFailureMessage}
	if !s.config.Production {
		resp.Details = errorDetails(err)
		resp.StatusCode = logofetch.UpstreamStatus(err)
	}
	writeJSON(w, status, resp)
}

// errorDetails prefers the outbound failure over the wrapping error.
func errorDetails(err error) string {
	var fe *logofetch.FetchError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
