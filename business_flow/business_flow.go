// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"

	"github.com/sequipment/outreach-hub/app/dto"
	"github.com/sequipment/outreach-hub/models"
)

const RequestIDKey = "X-Request-ID"

// CallLogFlow covers the lifecycle of a single call log entry and the store
// behind it.
type CallLogFlow interface {
	SaveEntry(ctx context.Context, req *dto.SaveEntryRequest) (*dto.SaveEntryResponse, error)
	GetEntry(ctx context.Context, key string) (*dto.CallEntryDTO, error)
	DeleteEntry(ctx context.Context, key string) error
	Refresh(ctx context.Context) (*dto.RefreshResponse, error)
	Status(ctx context.Context) *dto.CallLogStatusDTO
}

// TargetsQuery narrows a campaign call list.
type TargetsQuery struct {
	Branch     string
	Month      int
	Search     string
	HideCalled bool
}

// CampaignFlow serves the per-branch campaign overview and the ranked
// call lists.
type CampaignFlow interface {
	Cards(ctx context.Context, branch string, month int) (*dto.CampaignCardsResponse, error)
	Targets(ctx context.Context, campaign string, q TargetsQuery) (*dto.TargetListResponse, error)
}

// DashboardFlow aggregates the call log into the manager dashboard.
type DashboardFlow interface {
	Dashboard(ctx context.Context, month int) (*dto.DashboardResponse, error)
}

// ExportResult is a rendered export ready to send as a download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportFlow renders the call log for download.
type ExportFlow interface {
	Export(ctx context.Context, format string) (*ExportResult, error)
}

// ToCallEntryDTO converts a logged entry to its API form.
func ToCallEntryDTO(key models.LogKey, entry models.CallEntry) dto.CallEntryDTO {
	return dto.CallEntryDTO{
		LogKey:       string(key),
		CustomerName: entry.CustomerName,
		BranchName:   entry.BranchName,
		Called:       entry.Called,
		Followup:     entry.Followup,
		Notes:        entry.Notes,
		User:         entry.User,
		DateUpdated:  entry.DateUpdated,
		Campaign:     key.CampaignLabel(),
	}
}

func toTargetEntryDTO(entry models.CallEntry, ok bool) dto.TargetEntryDTO {
	if !ok {
		return dto.TargetEntryDTO{}
	}
	return dto.TargetEntryDTO{
		Called:   entry.Called,
		Followup: entry.Followup,
		Notes:    entry.Notes,
	}
}
