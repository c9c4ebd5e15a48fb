// Package dto provides request and response shapes for the HTTP API.
// Domain entities carry their own JSON tags and serve as responses;
// the types here are the inbound contracts.
package dto

// IDResponse for create operations that only return an identifier.
type IDResponse struct {
	ID int64 `json:"id"`
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse documents the error body shape produced by the error
// middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// SetActiveRequest toggles a catalog record's active flag.
type SetActiveRequest struct {
	Active bool `json:"active"`
}
