package preview

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/vango-dev/vango-ext/internal/errors"
)

var errEmptyMarkup = stderrors.New("markup is empty")

type errorResponse struct {
	Error   string           `json:"error"`
	Code    string           `json:"code,omitempty"`
	Details *errors.ExtError `json:"details,omitempty"`
}

func unknownComponent(qualified string) error {
	return errors.New("E234").WithDetail(qualified)
}

// statusOf maps an error to an HTTP status by its code.
func statusOf(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}

	switch errors.CodeOf(err) {
	case "E210", "E211", "E212", "E213", "E233":
		return http.StatusBadRequest
	case "E221", "E222", "E223":
		return http.StatusUnprocessableEntity
	case "E234":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var ee *errors.ExtError
	if stderrors.As(err, &ee) {
		resp.Code = ee.Code
		resp.Details = ee
	}
	writeJSON(w, status, resp)
}
