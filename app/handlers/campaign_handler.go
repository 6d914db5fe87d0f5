package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sequipment/outreach-hub/app/dto"
	businessflow "github.com/sequipment/outreach-hub/business_flow"
	"github.com/sequipment/outreach-hub/models"
	"github.com/sequipment/outreach-hub/utils"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	Cards(c fiber.Ctx) error
	Targets(c fiber.Ctx) error
	Branches(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{campaignFlow: campaignFlow}
}

func (h *CampaignHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CampaignHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Cards returns the per-branch campaign overview
// @Summary Campaign Cards
// @Description Per-branch target and called counts for every campaign
// @Tags Campaigns
// @Produce json
// @Param branch query string true "Branch name"
// @Param month query int false "Campaign month (1-12), defaults to the current month"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignCardsResponse} "Campaign cards"
// @Failure 400 {object} dto.APIResponse "Unknown branch or invalid month"
// @Router /api/v1/campaigns/cards [get]
func (h *CampaignHandler) Cards(c fiber.Ctx) error {
	branch := c.Query("branch")
	month, err := monthQuery(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid month", "INVALID_MONTH", nil)
	}

	result, err := h.campaignFlow.Cards(h.createRequestContext(c, "/api/v1/campaigns/cards"), branch, month)
	if err != nil {
		if businessflow.IsBranchRequired(err) || businessflow.IsUnknownBranch(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown branch", "UNKNOWN_BRANCH", nil)
		}
		if businessflow.IsInvalidMonth(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid month", "INVALID_MONTH", nil)
		}

		log.Println("Campaign cards failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign cards failed", "CAMPAIGN_CARDS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign cards retrieved", result)
}

// Targets returns one campaign's ranked call list
// @Summary Campaign Targets
// @Description Ranked call list for one campaign and branch
// @Tags Campaigns
// @Produce json
// @Param campaign path string true "Campaign code"
// @Param branch query string true "Branch name"
// @Param month query int false "Campaign month, service only"
// @Param search query string false "Filter by customer or company name"
// @Param hide_called query bool false "Hide already-called targets"
// @Success 200 {object} dto.APIResponse{data=dto.TargetListResponse} "Target list"
// @Failure 400 {object} dto.APIResponse "Unknown campaign, branch, or month"
// @Router /api/v1/campaigns/{campaign}/targets [get]
func (h *CampaignHandler) Targets(c fiber.Ctx) error {
	campaign := c.Params("campaign")
	month, err := monthQuery(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid month", "INVALID_MONTH", nil)
	}

	q := businessflow.TargetsQuery{
		Branch:     c.Query("branch"),
		Month:      month,
		Search:     c.Query("search"),
		HideCalled: c.Query("hide_called") == "true",
	}

	result, err := h.campaignFlow.Targets(h.createRequestContext(c, "/api/v1/campaigns/"+campaign+"/targets"), campaign, q)
	if err != nil {
		if businessflow.IsInvalidCampaign(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown campaign", "INVALID_CAMPAIGN", nil)
		}
		if businessflow.IsBranchRequired(err) || businessflow.IsUnknownBranch(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown branch", "UNKNOWN_BRANCH", nil)
		}
		if businessflow.IsInvalidMonth(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid month", "INVALID_MONTH", nil)
		}

		log.Println("Campaign targets failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign targets failed", "CAMPAIGN_TARGETS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign targets retrieved", result)
}

// Branches lists the known branches
// @Summary List Branches
// @Description Branch numbers and names for the login screen
// @Tags Campaigns
// @Produce json
// @Success 200 {object} dto.APIResponse "Branches"
// @Router /api/v1/branches [get]
func (h *CampaignHandler) Branches(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Branches retrieved", fiber.Map{
		"branches": models.Branches,
		"names":    models.BranchNames(),
	})
}

// monthQuery reads the month query param, defaulting to the current month.
func monthQuery(c fiber.Ctx) (int, error) {
	raw := c.Query("month")
	if raw == "" {
		return int(utils.UTCNow().Month()), nil
	}
	return strconv.Atoi(raw)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *CampaignHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CampaignHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "timeout", timeout)
	ctx = context.WithValue(ctx, "cancel_func", cancel) // Store cancel function for cleanup

	return ctx
}
