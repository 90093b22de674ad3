// Package response writes the storefront JSON envelope:
//
//	{"success":true,"error":false,"message":"...","data":...}
//	{"success":false,"error":true,"message":"..."}
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body shared by every JSON endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Error   bool        `json:"error"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Page is the listing envelope used by catalog endpoints.
type Page struct {
	Envelope
	TotalCount  int64 `json:"totalCount"`
	TotalNoPage int   `json:"totalNoPage"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 with data.
func Success(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 with data.
func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error sends the failure envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Error: true, Message: message})
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, Envelope{
		Error:   true,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Paginated sends a 200 listing with count metadata.
func Paginated(w http.ResponseWriter, data interface{}, total int64, page, limit int) {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	JSON(w, http.StatusOK, Page{
		Envelope:    Envelope{Success: true, Data: data},
		TotalCount:  total,
		TotalNoPage: pages,
		Page:        page,
		Limit:       limit,
	})
}

func Unauthorized(w http.ResponseWriter) { Error(w, http.StatusUnauthorized, "Unauthorized") }
func Forbidden(w http.ResponseWriter)    { Error(w, http.StatusForbidden, "Forbidden") }
func NotFound(w http.ResponseWriter)     { Error(w, http.StatusNotFound, "Not found") }
