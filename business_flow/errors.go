// Package businessflow contains the core business logic and use cases for outreach workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Call log errors
	ErrLogKeyRequired    = errors.New("log key is required")
	ErrLogKeyInvalid     = errors.New("log key is invalid")
	ErrEntryNotFound     = errors.New("call log entry not found")
	ErrUserNameRequired  = errors.New("user name is required")
	ErrBranchRequired    = errors.New("branch is required")
	ErrRemoteUnavailable = errors.New("shared workbook is unavailable")
	ErrInvalidCampaign   = errors.New("unknown campaign")
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrUnknownBranch     = errors.New("unknown branch")
	ErrExportFormat      = errors.New("unsupported export format")
	ErrNoEntriesToExport = errors.New("no call log entries to export")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsLogKeyRequired(err error) bool {
	return errors.Is(err, ErrLogKeyRequired)
}

func IsLogKeyInvalid(err error) bool {
	return errors.Is(err, ErrLogKeyInvalid)
}

func IsEntryNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}

func IsUserNameRequired(err error) bool {
	return errors.Is(err, ErrUserNameRequired)
}

func IsBranchRequired(err error) bool {
	return errors.Is(err, ErrBranchRequired)
}

func IsRemoteUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}

func IsInvalidCampaign(err error) bool {
	return errors.Is(err, ErrInvalidCampaign)
}

func IsInvalidMonth(err error) bool {
	return errors.Is(err, ErrInvalidMonth)
}

func IsUnknownBranch(err error) bool {
	return errors.Is(err, ErrUnknownBranch)
}

func IsExportFormat(err error) bool {
	return errors.Is(err, ErrExportFormat)
}

func IsNoEntriesToExport(err error) bool {
	return errors.Is(err, ErrNoEntriesToExport)
}
