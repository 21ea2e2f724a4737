package dto

// ErrorResponse is the generic error payload for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
