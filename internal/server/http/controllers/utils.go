package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rzbill/coinlog/internal/eventlog"
	"github.com/rzbill/coinlog/internal/request"
	kvsvc "github.com/rzbill/coinlog/internal/services/kv"
	profilesvc "github.com/rzbill/coinlog/internal/services/profiles"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeNoContent writes a 204 No Content response.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, false
	}
	return b, true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, request.ErrValidation),
		errors.Is(err, eventlog.ErrInvalidKey),
		errors.Is(err, kvsvc.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, profilesvc.ErrNotFound), errors.Is(err, kvsvc.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, profilesvc.ErrExists):
		return http.StatusConflict
	case errors.Is(err, eventlog.ErrStorageUnavailable), errors.Is(err, kvsvc.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors do not leak details.
func fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
