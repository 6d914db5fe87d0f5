// Package dto defines the request and response shapes of the outreach hub
// API: call log entries, campaign call lists, and the admin dashboard.
package dto

// APIResponse is the envelope every endpoint responds with. Data carries the
// operation result on success; Error carries an ErrorDetail on failure.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail is the machine-readable error payload. Code matches the
// business error codes (LOG_KEY_INVALID, UNKNOWN_BRANCH, ...); Details holds
// field-level validation messages when present.
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}
