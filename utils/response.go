package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/domainwatch/lookup/records"
)

// ErrorType represents different types of HTTP errors.
type ErrorType int

const (
	ErrorTypeNotFound ErrorType = iota
	ErrorTypeInternalServer
	ErrorTypeBadRequest
)

// HandleLookupError maps a failed lookup to an HTTP response. Rate limiting
// is surfaced as 429 so callers know to retry later; everything else is a
// plain lookup failure.
func HandleLookupError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var lookupErr *records.LookupError
	if errors.As(err, &lookupErr) {
		switch lookupErr.Kind {
		case records.KindRateLimited:
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": "Registry rate limit hit, try again later"}`)
			return
		case records.KindNoData:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": "No registration data found"}`)
			return
		}
	}
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprint(w, `{"error": "Lookup failed"}`)
}

// HandleHTTPError writes a typed HTTP error with a JSON body.
func HandleHTTPError(w http.ResponseWriter, errorType ErrorType, message string) {
	w.Header().Set("Content-Type", "application/json")

	switch errorType {
	case ErrorTypeNotFound:
		w.WriteHeader(http.StatusNotFound)
		if message == "" {
			message = "Resource not found"
		}
	case ErrorTypeBadRequest:
		w.WriteHeader(http.StatusBadRequest)
		if message == "" {
			message = "Bad request"
		}
	default:
		w.WriteHeader(http.StatusInternalServerError)
		if message == "" {
			message = "Internal server error"
		}
	}

	fmt.Fprint(w, `{"error": "`+message+`"}`)
}

// HandleInternalError handles internal server errors.
func HandleInternalError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// HandleCacheResponse writes cached data to an HTTP response.
func HandleCacheResponse(w http.ResponseWriter, data string, contentType string) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, data)
}
