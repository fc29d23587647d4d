package response

import (
	"encoding/json"
	"net/http"
)

// JSON sends a flat envelope: {"success": <derived from status>, ...fields}.
// Endpoint-specific fields sit next to success rather than under a data
// wrapper, so handlers control the exact body shape.
func JSON(w http.ResponseWriter, status int, fields map[string]any) {
	body := map[string]any{
		"success": status >= 200 && status < 300,
	}
	for k, v := range fields {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// OK sends a 200 envelope
func OK(w http.ResponseWriter, fields map[string]any) {
	JSON(w, http.StatusOK, fields)
}

// Created sends a 201 envelope
func Created(w http.ResponseWriter, fields map[string]any) {
	JSON(w, http.StatusCreated, fields)
}

// Error sends {"success": false, "message": <message>}
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{"message": message})
}

// ErrorWithDetail sends an error envelope with an extra error field.
// Handlers only attach detail when debug mode is on.
func ErrorWithDetail(w http.ResponseWriter, status int, message, detail string) {
	JSON(w, status, map[string]any{"message": message, "error": detail})
}

// ValidationFailed sends a 422 envelope carrying per-field errors
func ValidationFailed(w http.ResponseWriter, errors map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "Validation error.",
		"errors":  errors,
	})
}

// BadRequest sends a 400 error envelope
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error envelope
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// NotFound sends a 404 error envelope
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Unprocessable sends a 422 error envelope
func Unprocessable(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnprocessableEntity, message)
}

// InternalError sends a 500 error envelope
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
