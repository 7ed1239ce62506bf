package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/masonry/pkg/errors"
)

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps err to its HTTP status. Errors without a code are
// reported as INTERNAL_ERROR and their text is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, errors.HTTPStatus(code), errorResponse{
		Code:      string(code),
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func notFoundError(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

// contentTypes maps render formats to response media types.
var contentTypes = map[string]string{
	"svg":     "image/svg+xml",
	"png":     "image/png",
	"pdf":     "application/pdf",
	"json":    "application/json",
	"dot":     "text/vnd.graphviz; charset=utf-8",
	"cellmap": "image/svg+xml",
}

func contentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}
