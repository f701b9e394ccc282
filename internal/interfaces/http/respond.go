// Package http exposes the InsuraIQ REST API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
	apperrors "github.com/ronled86/InsuraIQ/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error onto its HTTP status and JSON body. Unknown
// errors become opaque 500s; their detail stays in the logs.
func writeError(w http.ResponseWriter, logger logging.Logger, err error) {
	var body errorBody

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Error.Code = appErr.Code.String()
		body.Error.Message = appErr.Message
		body.Error.Detail = appErr.Detail
		status := apperrors.HTTPStatusForCode(appErr.Code)
		if status >= http.StatusInternalServerError && logger != nil {
			logger.Error("request failed", logging.Err(err))
			body.Error.Detail = ""
		}
		writeJSON(w, status, body)
		return
	}

	if logger != nil {
		logger.Error("request failed", logging.Err(err))
	}
	body.Error.Code = apperrors.ErrCodeInternal.String()
	body.Error.Message = apperrors.DefaultMessageForCode(apperrors.ErrCodeInternal)
	writeJSON(w, http.StatusInternalServerError, body)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	var body errorBody
	body.Error.Code = apperrors.ErrCodeBadRequest.String()
	body.Error.Message = message
	writeJSON(w, http.StatusBadRequest, body)
}
