// Package errhttp maps market domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/marketledger/pkg/httpx"
	marketdomain "github.com/ghuser/marketledger/services/market/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, marketdomain.ErrItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, marketdomain.ErrInvalidPrice),
		errors.Is(err, marketdomain.ErrFeeTooHigh):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, marketdomain.ErrInvalidAccount):
		return http.StatusBadRequest // 400
	case errors.Is(err, marketdomain.ErrNotListed),
		errors.Is(err, marketdomain.ErrAlreadyListed):
		return http.StatusConflict // 409
	case errors.Is(err, marketdomain.ErrNotOwner),
		errors.Is(err, marketdomain.ErrUnauthorized):
		return http.StatusForbidden // 403
	case errors.Is(err, marketdomain.ErrInsufficientAllowance):
		return http.StatusPaymentRequired // 402
	case errors.Is(err, marketdomain.ErrPaymentFailed):
		return http.StatusBadGateway // 502 — ownership committed, settlement failed
	case errors.Is(err, marketdomain.ErrReentrantCall):
		return http.StatusLocked // 423
	default:
		return http.StatusInternalServerError // 500
	}
}
