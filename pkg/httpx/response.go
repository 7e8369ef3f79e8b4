package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as JSON with the given status code. Content-Type and
// X-Content-Type-Options headers are set automatically. Encoding errors are
// discarded, so use this for handler responses and not for streaming.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes a standard {"error": message} JSON response.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// JSONErrorDetails writes {"error": message, "details": details}. Used when the
// caller needs structured data to act on, e.g. which item ran out of stock.
func JSONErrorDetails(w http.ResponseWriter, status int, message string, details any) {
	JSON(w, status, ErrorBody{Error: message, Details: details})
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error" example:"sales order not found"`
	Details any    `json:"details,omitempty"`
} // @name ErrorBody

// Page is the JSON envelope for paginated list responses.
type Page[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SafeError returns the error message for client responses.
// In production (isProduction=true), internal server errors (5xx) are replaced
// with a generic message to avoid leaking implementation details.
func SafeError(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
