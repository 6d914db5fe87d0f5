// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/sequipment/outreach-hub/app/dto"
	businessflow "github.com/sequipment/outreach-hub/business_flow"
)

// CallLogHandlerInterface defines the contract for call log handlers
type CallLogHandlerInterface interface {
	SaveEntry(c fiber.Ctx) error
	GetEntry(c fiber.Ctx) error
	DeleteEntry(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
	Status(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// CallLogHandler handles call log HTTP requests
type CallLogHandler struct {
	callLogFlow businessflow.CallLogFlow
	exportFlow  businessflow.ExportFlow
	validator   *validator.Validate
}

// NewCallLogHandler creates a new call log handler
func NewCallLogHandler(callLogFlow businessflow.CallLogFlow, exportFlow businessflow.ExportFlow) *CallLogHandler {
	return &CallLogHandler{
		callLogFlow: callLogFlow,
		exportFlow:  exportFlow,
		validator:   validator.New(),
	}
}

func (h *CallLogHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CallLogHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SaveEntry records the outcome of one outreach call
// @Summary Save Call Log Entry
// @Description Record a call outcome; clearing every field deletes the logged row
// @Tags CallLog
// @Accept json
// @Produce json
// @Param request body dto.SaveEntryRequest true "Call outcome"
// @Success 200 {object} dto.APIResponse{data=dto.SaveEntryResponse} "Entry saved"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/call-log/entries [post]
func (h *CallLogHandler) SaveEntry(c fiber.Ctx) error {
	var req dto.SaveEntryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.callLogFlow.SaveEntry(h.createRequestContext(c, "/api/v1/call-log/entries"), &req)
	if err != nil {
		if businessflow.IsLogKeyRequired(err) || businessflow.IsLogKeyInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid log key", "LOG_KEY_INVALID", nil)
		}
		if businessflow.IsUserNameRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "User name is required", "USER_NAME_REQUIRED", nil)
		}

		log.Println("Call log save failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call log save failed", "CALL_LOG_SAVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Call log entry saved", result)
}

// GetEntry returns one logged entry
// @Summary Get Call Log Entry
// @Description Return the logged state for one log key
// @Tags CallLog
// @Produce json
// @Param key path string true "Log key"
// @Success 200 {object} dto.APIResponse{data=dto.CallEntryDTO} "Entry found"
// @Failure 400 {object} dto.APIResponse "Invalid log key"
// @Failure 404 {object} dto.APIResponse "Entry not found"
// @Router /api/v1/call-log/entries/{key} [get]
func (h *CallLogHandler) GetEntry(c fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Log key is required", "LOG_KEY_REQUIRED", nil)
	}

	result, err := h.callLogFlow.GetEntry(h.createRequestContext(c, "/api/v1/call-log/entries/"+key), key)
	if err != nil {
		if businessflow.IsEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Call log entry not found", "ENTRY_NOT_FOUND", nil)
		}
		if businessflow.IsLogKeyRequired(err) || businessflow.IsLogKeyInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid log key", "LOG_KEY_INVALID", nil)
		}

		log.Println("Call log read failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call log read failed", "CALL_LOG_READ_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Call log entry retrieved", result)
}

// DeleteEntry clears one logged entry
// @Summary Delete Call Log Entry
// @Description Clear the logged row for one log key; unknown keys succeed
// @Tags CallLog
// @Produce json
// @Param key path string true "Log key"
// @Success 200 {object} dto.APIResponse "Entry cleared"
// @Failure 400 {object} dto.APIResponse "Invalid log key"
// @Router /api/v1/call-log/entries/{key} [delete]
func (h *CallLogHandler) DeleteEntry(c fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Log key is required", "LOG_KEY_REQUIRED", nil)
	}

	if err := h.callLogFlow.DeleteEntry(h.createRequestContext(c, "/api/v1/call-log/entries/"+key), key); err != nil {
		if businessflow.IsLogKeyRequired(err) || businessflow.IsLogKeyInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid log key", "LOG_KEY_INVALID", nil)
		}

		log.Println("Call log delete failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call log delete failed", "CALL_LOG_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Call log entry cleared", nil)
}

// Refresh re-syncs the call log from the shared workbook
// @Summary Refresh Call Log
// @Description Reload the call log from the shared workbook, reconnecting if needed
// @Tags CallLog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RefreshResponse} "Call log refreshed"
// @Failure 503 {object} dto.APIResponse "Shared workbook unavailable"
// @Router /api/v1/call-log/refresh [post]
func (h *CallLogHandler) Refresh(c fiber.Ctx) error {
	result, err := h.callLogFlow.Refresh(h.createRequestContext(c, "/api/v1/call-log/refresh"))
	if err != nil {
		if businessflow.IsRemoteUnavailable(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Shared workbook is unavailable", "REMOTE_UNAVAILABLE", nil)
		}

		log.Println("Call log refresh failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call log refresh failed", "CALL_LOG_REFRESH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Call log refreshed", result)
}

// Status reports the store and its active backend
// @Summary Call Log Status
// @Description Report entry count and which backend writes currently reach
// @Tags CallLog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CallLogStatusDTO} "Status"
// @Router /api/v1/call-log/status [get]
func (h *CallLogHandler) Status(c fiber.Ctx) error {
	result := h.callLogFlow.Status(h.createRequestContext(c, "/api/v1/call-log/status"))
	return h.SuccessResponse(c, fiber.StatusOK, "Call log status", result)
}

// Export downloads the full call log
// @Summary Export Call Log
// @Description Download the full call log as CSV or XLSX
// @Tags CallLog
// @Produce octet-stream
// @Param format query string false "Export format (csv or xlsx)" default(csv)
// @Success 200 {file} file "Exported call log"
// @Failure 400 {object} dto.APIResponse "Unsupported format"
// @Failure 404 {object} dto.APIResponse "Nothing to export"
// @Router /api/v1/call-log/export [get]
func (h *CallLogHandler) Export(c fiber.Ctx) error {
	format := c.Query("format", "csv")

	result, err := h.exportFlow.Export(h.createRequestContext(c, "/api/v1/call-log/export"), format)
	if err != nil {
		if businessflow.IsExportFormat(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported export format", "EXPORT_FORMAT", nil)
		}
		if businessflow.IsNoEntriesToExport(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No call log entries to export", "NO_ENTRIES", nil)
		}

		log.Println("Call log export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call log export failed", "EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", result.ContentType)
	c.Set("Content-Disposition", "attachment; filename="+result.Filename)
	return c.Send(result.Data)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *CallLogHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *CallLogHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "timeout", timeout)
	ctx = context.WithValue(ctx, "cancel_func", cancel) // Store cancel function for cleanup

	return ctx
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	default:
		return err.Field() + " is invalid"
	}
}
