package businessflow

import (
	"context"
	"sort"
	"strings"

	"github.com/sequipment/outreach-hub/app/dto"
	"github.com/sequipment/outreach-hub/models"
	"github.com/sequipment/outreach-hub/repository"
	"github.com/sequipment/outreach-hub/utils"
	"go.uber.org/zap"
)

// CampaignFlowImpl implements CampaignFlow over the static campaign datasets
// and the live call log.
type CampaignFlowImpl struct {
	store    *repository.CallLogStore
	datasets repository.DatasetRepository
	logger   *zap.Logger
}

func NewCampaignFlow(store *repository.CallLogStore, datasets repository.DatasetRepository, logger *zap.Logger) CampaignFlow {
	return &CampaignFlowImpl{store: store, datasets: datasets, logger: logger}
}

// Cards builds the per-branch campaign overview. The two conquest datasets
// merge into one card; the service card only counts targets due in the
// chosen month.
func (f *CampaignFlowImpl) Cards(ctx context.Context, branch string, month int) (*dto.CampaignCardsResponse, error) {
	if err := validateBranch(branch); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	log := f.store.Snapshot()
	called := func(code models.CampaignCode, id string) int {
		if e, ok := log[models.NewLogKey(code, id)]; ok && e.Called {
			return 1
		}
		return 0
	}

	var recovery, conquest, parts, service, consignment dto.CampaignCardDTO
	recovery = dto.CampaignCardDTO{Campaign: "recovery", Title: "Recovery"}
	for _, r := range f.datasets.Recovery() {
		if r.Branch != branch {
			continue
		}
		recovery.Targets++
		recovery.Called += called(models.CampaignRecovery, r.Customer)
	}

	conquest = dto.CampaignCardDTO{Campaign: "conquest", Title: "Conquest"}
	for _, r := range f.datasets.ConquestSN() {
		if r.Branch != branch {
			continue
		}
		conquest.Targets++
		conquest.Called += called(models.CampaignConquestSN, r.Company)
	}
	for _, r := range f.datasets.ConquestEDA() {
		if r.Branch != branch {
			continue
		}
		conquest.Targets++
		conquest.Called += called(models.CampaignConquestEDA, r.Company)
	}

	parts = dto.CampaignCardDTO{Campaign: "parts", Title: "Parts Campaign"}
	for _, r := range f.datasets.Parts() {
		if r.BranchName != branch {
			continue
		}
		parts.Targets++
		parts.Called += called(models.CampaignParts, r.Customer)
	}

	service = dto.CampaignCardDTO{Campaign: "service", Title: "Service"}
	for _, r := range f.datasets.ServiceForMonth(month) {
		if r.BranchName != branch {
			continue
		}
		service.Targets++
		service.Called += called(models.CampaignService, r.CustAcct)
	}

	consignment = dto.CampaignCardDTO{Campaign: "consignment", Title: "Consignment"}
	for _, r := range f.datasets.Consignment() {
		if r.Branch != branch {
			continue
		}
		consignment.Targets++
		consignment.Called += called(models.CampaignConsignment, r.Account)
	}

	cards := []dto.CampaignCardDTO{recovery, conquest, parts, service, consignment}
	resp := &dto.CampaignCardsResponse{
		Branch:    branch,
		Month:     month,
		MonthName: models.MonthNames[month],
		Cards:     cards,
	}
	for _, c := range cards {
		resp.TotalTargets += c.Targets
		resp.TotalCalled += c.Called
	}
	return resp, nil
}

// Targets builds one campaign's ranked call list for a branch. Counts cover
// the whole branch set; rows honor the hide-called filter and the row cap.
func (f *CampaignFlowImpl) Targets(ctx context.Context, campaign string, q TargetsQuery) (*dto.TargetListResponse, error) {
	code := models.CampaignCode(campaign)
	if !code.Valid() {
		return nil, NewBusinessError("INVALID_CAMPAIGN", "unknown campaign", ErrInvalidCampaign)
	}
	if err := validateBranch(q.Branch); err != nil {
		return nil, err
	}
	if code == models.CampaignService {
		if err := validateMonth(q.Month); err != nil {
			return nil, err
		}
	}

	log := f.store.Snapshot()
	resp := &dto.TargetListResponse{
		Campaign: campaign,
		Branch:   q.Branch,
	}
	if code == models.CampaignService {
		resp.Month = q.Month
	}

	switch code {
	case models.CampaignRecovery:
		resp.Rows = f.recoveryRows(log, q, resp)
	case models.CampaignConquestSN:
		resp.Rows = f.conquestSNRows(log, q, resp)
	case models.CampaignConquestEDA:
		resp.Rows = f.conquestEDARows(log, q, resp)
	case models.CampaignParts:
		resp.Rows = f.partsRows(log, q, resp)
	case models.CampaignService:
		resp.Rows = f.serviceRows(log, q, resp)
	case models.CampaignConsignment:
		resp.Rows = f.consignmentRows(log, q, resp)
	}
	return resp, nil
}

type callLog = map[models.LogKey]models.CallEntry

func (f *CampaignFlowImpl) recoveryRows(log callLog, q TargetsQuery, resp *dto.TargetListResponse) []dto.RecoveryTargetDTO {
	rows := make([]dto.RecoveryTargetDTO, 0)
	for _, r := range f.datasets.Recovery() {
		if r.Branch != q.Branch || !matches(q.Search, r.Customer) {
			continue
		}
		key := models.NewLogKey(models.CampaignRecovery, r.Customer)
		entry, ok := log[key]
		countTarget(resp, entry, ok)
		if q.HideCalled && ok && entry.Called {
			continue
		}
		rows = append(rows, dto.RecoveryTargetDTO{
			LogKey:        string(key),
			Customer:      r.Customer,
			Branch:        r.Branch,
			Action:        r.Action,
			DeclineAmount: r.DeclineAmount,
			Entry:         toTargetEntryDTO(entry, ok),
		})
	}
	// Uncalled first, biggest decline first within each group.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Entry.Called != rows[j].Entry.Called {
			return !rows[i].Entry.Called
		}
		return rows[i].DeclineAmount > rows[j].DeclineAmount
	})
	return capRows(rows, utils.TargetRowLimit)
}

func (f *CampaignFlowImpl) conquestSNRows(log callLog, q TargetsQuery, resp *dto.TargetListResponse) []dto.ConquestSNTargetDTO {
	rows := make([]dto.ConquestSNTargetDTO, 0)
	for _, r := range f.datasets.ConquestSN() {
		if r.Branch != q.Branch || !matches(q.Search, r.Company) {
			continue
		}
		key := models.NewLogKey(models.CampaignConquestSN, r.Company)
		entry, ok := log[key]
		countTarget(resp, entry, ok)
		if q.HideCalled && ok && entry.Called {
			continue
		}
		rows = append(rows, dto.ConquestSNTargetDTO{
			LogKey:            string(key),
			Company:           r.Company,
			Branch:            r.Branch,
			HeatScore:         r.HeatScore,
			SECFleet:          r.SECFleet,
			HistoricalRevenue: r.HistoricalRevenue,
			Contact:           r.Contact,
			Phone:             r.Phone,
			City:              r.City,
			State:             r.State,
			Entry:             toTargetEntryDTO(entry, ok),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].HeatScore > rows[j].HeatScore })
	return capRows(rows, utils.ConquestRowLimit)
}

func (f *CampaignFlowImpl) conquestEDARows(log callLog, q TargetsQuery, resp *dto.TargetListResponse) []dto.ConquestEDATargetDTO {
	rows := make([]dto.ConquestEDATargetDTO, 0)
	for _, r := range f.datasets.ConquestEDA() {
		if r.Branch != q.Branch || !matches(q.Search, r.Company) {
			continue
		}
		key := models.NewLogKey(models.CampaignConquestEDA, r.Company)
		entry, ok := log[key]
		countTarget(resp, entry, ok)
		if q.HideCalled && ok && entry.Called {
			continue
		}
		rows = append(rows, dto.ConquestEDATargetDTO{
			LogKey:   string(key),
			Company:  r.Company,
			Branch:   r.Branch,
			Score:    r.Score,
			SECUnits: r.SECUnits,
			SECValue: r.SECValue,
			Contact:  r.Contact,
			Phone:    r.Phone,
			City:     r.City,
			State:    r.State,
			Entry:    toTargetEntryDTO(entry, ok),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	return capRows(rows, utils.ConquestRowLimit)
}

func (f *CampaignFlowImpl) partsRows(log callLog, q TargetsQuery, resp *dto.TargetListResponse) []dto.PartsTargetDTO {
	rows := make([]dto.PartsTargetDTO, 0)
	for _, r := range f.datasets.Parts() {
		if r.BranchName != q.Branch || !matches(q.Search, r.CustomerName) {
			continue
		}
		key := models.NewLogKey(models.CampaignParts, r.Customer)
		entry, ok := log[key]
		countTarget(resp, entry, ok)
		if q.HideCalled && ok && entry.Called {
			continue
		}
		name := r.CustomerName
		if name == "" {
			name = r.Customer
		}
		rows = append(rows, dto.PartsTargetDTO{
			LogKey:       string(key),
			Customer:     r.Customer,
			CustomerName: name,
			Branch:       r.BranchName,
			Equipment:    r.Equipment,
			Categories:   r.Categories,
			Entry:        toTargetEntryDTO(entry, ok),
		})
	}
	return capRows(rows, utils.TargetRowLimit)
}

func (f *CampaignFlowImpl) serviceRows(log callLog, q TargetsQuery, resp *dto.TargetListResponse) []dto.ServiceTargetDTO {
	rows := make([]dto.ServiceTargetDTO, 0)
	for _, r := range f.datasets.ServiceForMonth(q.Month) {
		if r.BranchName != q.Branch {
			continue
		}
		if !matches(q.Search, r.CustName) && !matches(q.Search, r.Equipment) {
			continue
		}
		key := models.NewLogKey(models.CampaignService, r.CustAcct)
		entry, ok := log[key]
		countTarget(resp, entry, ok)
		if q.HideCalled && ok && entry.Called {
			continue
		}
		rows = append(rows, dto.ServiceTargetDTO{
			LogKey:       string(key),
			CustAcct:     r.CustAcct,
			CustName:     strings.TrimSpace(r.CustName),
			Branch:       r.BranchName,
			Tier:         r.Tier,
			MonthRevenue: r.MonthRevenue,
			Equipment:    r.Equipment,
			History:      r.History,
			GLDesc:       r.GLDesc,
			YearPattern:  r.YearPattern,
			Entry:        toTargetEntryDTO(entry, ok),
		})
	}
	// Proven tiers first, then by revenue.
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := tierRank(rows[i].Tier), tierRank(rows[j].Tier)
		if ti != tj {
			return ti < tj
		}
		return rows[i].MonthRevenue > rows[j].MonthRevenue
	})
	return capRows(rows, utils.TargetRowLimit)
}

func (f *CampaignFlowImpl) consignmentRows(log callLog, q TargetsQuery, resp *dto.TargetListResponse) []dto.ConsignmentTargetDTO {
	rows := make([]dto.ConsignmentTargetDTO, 0)
	for _, r := range f.datasets.Consignment() {
		if r.Branch != q.Branch || !matches(q.Search, r.Customer) {
			continue
		}
		key := models.NewLogKey(models.CampaignConsignment, r.Account)
		entry, ok := log[key]
		countTarget(resp, entry, ok)
		if q.HideCalled && ok && entry.Called {
			continue
		}
		rows = append(rows, dto.ConsignmentTargetDTO{
			LogKey:      string(key),
			Account:     r.Account,
			Customer:    strings.TrimSpace(r.Customer),
			Branch:      r.Branch,
			Readiness:   r.Readiness,
			Phase:       r.Phase,
			Equipment:   r.Equipment,
			TopParts:    r.TopParts,
			RepeatParts: r.RepeatParts,
			StockCost:   r.StockCost,
			SellValue:   r.SellValue,
			GrossMargin: r.GrossMargin,
			BinROI:      r.BinROI,
			PeakSeason:  r.PeakSeason,
			RevPriorYr:  r.RevPriorYr,
			Trend:       r.Trend,
			Entry:       toTargetEntryDTO(entry, ok),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Readiness > rows[j].Readiness })
	return capRows(rows, utils.TargetRowLimit)
}

func countTarget(resp *dto.TargetListResponse, entry models.CallEntry, ok bool) {
	resp.TotalTargets++
	if ok && entry.Called {
		resp.CalledCount++
	}
	if ok && entry.Followup {
		resp.FollowupCount++
	}
}

func capRows[T any](rows []T, limit int) []T {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func matches(search, value string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

func tierRank(tier string) int {
	switch tier {
	case models.ServiceTierStrong:
		return 0
	case models.ServiceTierGood:
		return 1
	case models.ServiceTierTarget:
		return 2
	default:
		return 3
	}
}

func validateBranch(branch string) error {
	if strings.TrimSpace(branch) == "" {
		return NewBusinessError("BRANCH_REQUIRED", "branch is required", ErrBranchRequired)
	}
	if !models.ValidBranchName(branch) {
		return NewBusinessError("UNKNOWN_BRANCH", "unknown branch", ErrUnknownBranch)
	}
	return nil
}

func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return NewBusinessError("INVALID_MONTH", "month must be between 1 and 12", ErrInvalidMonth)
	}
	return nil
}
