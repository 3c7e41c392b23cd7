// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/restocker/pkg/httpx"
	inventory "github.com/ghuser/restocker/services/inventory/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Unrecognized errors become 500 with a generic message; storage details
// never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, true))
}

// Status returns the HTTP status WriteError would use for err.
func Status(err error) int {
	return mapErrorToStatus(err)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound),
		errors.Is(err, inventory.ErrBarcodeNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, inventory.ErrInvalidItem),
		errors.Is(err, inventory.ErrInvalidActivity),
		errors.Is(err, inventory.ErrInvalidPreferences):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, inventory.ErrImportParse):
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}
