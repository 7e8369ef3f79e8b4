// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/inventra/pkg/httpx"
	"github.com/ghuser/inventra/pkg/logger"
	"github.com/ghuser/inventra/pkg/telemetry"
	itemdomain "github.com/ghuser/inventra/services/item/domain"
	sodomain "github.com/ghuser/inventra/services/salesorder/domain"
)

// Responder writes domain errors as JSON responses. In production the
// message of 5xx responses is replaced with the status text. 5xx errors are
// also reported to Sentry when it is configured.
type Responder struct {
	IsProduction bool
	Log          logger.Logger // optional; 5xx errors are logged when set
}

// Write maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func (rs Responder) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		if rs.Log != nil {
			rs.Log.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		}
		telemetry.CaptureError(r.Context(), err)
	}
	msg := httpx.SafeError(err, status, rs.IsProduction)
	if details := errorDetails(err); details != nil {
		httpx.JSONErrorDetails(w, status, msg, details)
		return
	}
	httpx.JSONError(w, status, msg)
}

// WriteError writes err without production masking. Prefer a configured Responder in handlers.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	if details := errorDetails(err); details != nil {
		httpx.JSONErrorDetails(w, status, err.Error(), details)
		return
	}
	httpx.JSONError(w, status, err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound),
		errors.Is(err, sodomain.ErrOrderNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrDuplicateSKU),
		errors.Is(err, sodomain.ErrItemNotFound),
		errors.Is(err, sodomain.ErrInsufficientStock),
		errors.Is(err, sodomain.ErrInvalidTransition):
		return http.StatusConflict // 409
	case errors.Is(err, itemdomain.ErrInvalidItem),
		errors.Is(err, sodomain.ErrInvalidStatus),
		errors.Is(err, sodomain.ErrInvalidFulfillmentStatus),
		errors.Is(err, sodomain.ErrDuplicateKey),
		errors.Is(err, sodomain.ErrInvalidOrderInput):
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// errorDetails returns the structured part of typed domain errors, or nil.
func errorDetails(err error) any {
	var (
		stock *sodomain.InsufficientStockError
		item  *sodomain.ItemNotFoundError
		dup   *sodomain.DuplicateKeyError
		trans *sodomain.TransitionError
	)
	switch {
	case errors.As(err, &stock):
		return map[string]string{
			"item_id":   stock.ItemID.String(),
			"item_name": stock.ItemName,
			"available": stock.Available.String(),
			"requested": stock.Requested.String(),
		}
	case errors.As(err, &item):
		return map[string]string{"item_id": item.ItemID.String()}
	case errors.As(err, &dup):
		return map[string]string{"field": dup.Field, "value": dup.Value}
	case errors.As(err, &trans):
		return map[string]string{"axis": trans.Axis, "from": trans.From, "to": trans.To}
	default:
		return nil
	}
}
