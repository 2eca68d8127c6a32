package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the wire format for every error the API returns.
// ErrorCode is a registry error code, more specific than the HTTP
// status (40401 subject not found, 42201 invalid schema, and so on).
type ErrorResponse struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes an error body with the given HTTP status and
// registry error code.
func WriteError(w http.ResponseWriter, status, errorCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
	})
}

// WriteBadRequest writes a malformed-request error (400). The error
// code mirrors the status since no more specific code applies.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, http.StatusBadRequest, message)
}

// WriteInternalError writes a storage or server failure (500)
func WriteInternalError(w http.ResponseWriter, errorCode int, err error) {
	WriteError(w, http.StatusInternalServerError, errorCode, err.Error())
}

// WriteSuccess writes a successful response (200 OK) with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteNoContent writes a successful response with no content (204 No Content)
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
