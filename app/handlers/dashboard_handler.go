package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sequipment/outreach-hub/app/dto"
	businessflow "github.com/sequipment/outreach-hub/business_flow"
)

// DashboardHandlerInterface defines the contract for dashboard handlers
type DashboardHandlerInterface interface {
	Dashboard(c fiber.Ctx) error
}

// DashboardHandler handles manager dashboard HTTP requests
type DashboardHandler struct {
	dashboardFlow businessflow.DashboardFlow
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardFlow businessflow.DashboardFlow) *DashboardHandler {
	return &DashboardHandler{dashboardFlow: dashboardFlow}
}

func (h *DashboardHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *DashboardHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Dashboard returns the full manager dashboard
// @Summary Manager Dashboard
// @Description Summary metrics, campaign progress, branch activity, recent calls and leaderboard
// @Tags Dashboard
// @Produce json
// @Param month query int false "Campaign month (1-12), defaults to the current month"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Failure 400 {object} dto.APIResponse "Invalid month"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Dashboard(c fiber.Ctx) error {
	month, err := monthQuery(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid month", "INVALID_MONTH", nil)
	}

	result, err := h.dashboardFlow.Dashboard(h.createRequestContext(c, "/api/v1/dashboard"), month)
	if err != nil {
		if businessflow.IsInvalidMonth(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid month", "INVALID_MONTH", nil)
		}

		log.Println("Dashboard failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Dashboard failed", "DASHBOARD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Dashboard retrieved", result)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *DashboardHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *DashboardHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "timeout", timeout)
	ctx = context.WithValue(ctx, "cancel_func", cancel) // Store cancel function for cleanup

	return ctx
}
