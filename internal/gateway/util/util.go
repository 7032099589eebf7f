// ============================================================================
// internal/gateway/util/util.go
// JSON response helpers and domain error -> HTTP mapping
// ============================================================================

package util

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"internhub/internal/grading"
)

// JSONResponse structure for successful responses
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSONError structure for error responses
type JSONError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// WriteJSON is a helper to write JSON responses
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var response interface{}

	// If payload is already a map with a "success" key, use it directly
	if responseMap, ok := payload.(map[string]interface{}); ok && responseMap["success"] != nil {
		response = payload
	} else {
		response = JSONResponse{Success: true, Data: payload}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONError is a helper to write standardized error JSON responses
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	log.Printf("HTTP Error %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success: false,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Error writing JSON error response: %v", err)
	}
}

// HandleServiceError translates grading domain errors to HTTP responses.
// This is the single fault mapping point for the gateway; handlers never
// inspect error kinds themselves.
func HandleServiceError(w http.ResponseWriter, err error) {
	switch grading.KindOf(err) {
	case grading.KindNotFound:
		writeKindError(w, http.StatusNotFound, grading.KindNotFound, err)
	case grading.KindForbidden:
		writeKindError(w, http.StatusForbidden, grading.KindForbidden, err)
	case grading.KindValidation:
		writeKindError(w, http.StatusBadRequest, grading.KindValidation, err)
	case grading.KindLimitExceeded:
		writeKindError(w, http.StatusBadRequest, grading.KindLimitExceeded, err)
	case grading.KindInvalidState:
		writeKindError(w, http.StatusConflict, grading.KindInvalidState, err)
	case grading.KindConflict:
		writeKindError(w, http.StatusConflict, grading.KindConflict, err)
	default:
		log.Printf("Internal error: %v", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeKindError(w http.ResponseWriter, status int, kind grading.Kind, err error) {
	log.Printf("HTTP Error %d (%s): %v", status, kind, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := JSONError{
		Success: false,
		Message: err.Error(),
		Kind:    string(kind),
	}
	var gerr *grading.Error
	if errors.As(err, &gerr) {
		response.Message = gerr.Message
	}

	if encErr := json.NewEncoder(w).Encode(response); encErr != nil {
		log.Printf("Error writing JSON error response: %v", encErr)
	}
}
