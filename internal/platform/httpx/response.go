// Package httpx holds the JSON response envelope shared by all HTTP handlers.
package httpx

import (
	"encoding/json"
	"log"
	"net/http"
)

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed responses. Message is safe to show
// to clients; internal detail stays in logs.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteSuccess writes the success envelope with the given HTTP status code.
func WriteSuccess(w http.ResponseWriter, code int, message string, data any) {
	write(w, code, SuccessResponse{Status: "success", Message: message, Data: data})
}

// WriteError writes the error envelope with the given HTTP status code.
// errName is a short category (e.g. "Unauthorized"); message is human-readable.
func WriteError(w http.ResponseWriter, code int, errName, message string) {
	write(w, code, ErrorResponse{Status: "error", Error: errName, Message: message})
}

func write(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("httpx: write response: %v", err)
	}
}

// Common error writers used across handlers so the wording stays uniform.

// WriteUnauthorized writes a 401 with a uniform message that does not reveal
// which validation step failed.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "Unauthorized", message)
}

// WriteForbidden writes a 403 with a generic insufficient-privileges message.
func WriteForbidden(w http.ResponseWriter) {
	WriteError(w, http.StatusForbidden, "Forbidden", "insufficient privileges")
}

// WriteInternal writes a 500 without leaking internal detail.
func WriteInternal(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Internal Server Error", "something went wrong")
}
