package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"waste-route-service/internal/platform/apperr"
	"waste-route-service/internal/platform/logger"
)

const maxBodyBytes = 4 << 20

type errorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithContext(r.Context()).Error().Err(err).
			Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeAppError maps business errors to their status and code. Anything else
// is logged and reported as a 500 without details.
func writeAppError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
		writeJSON(w, r, appErr.HTTPStatus, errorResponse{Error: appErr.Message, Code: appErr.Code})
		return
	}

	logger.WithContext(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	writeJSON(w, r, http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
		Code:  apperr.CodeInternal,
	})
}

// decodeJSON reads exactly one JSON object from the body. An empty body
// leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid json body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
