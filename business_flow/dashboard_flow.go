package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sequipment/outreach-hub/app/dto"
	"github.com/sequipment/outreach-hub/models"
	"github.com/sequipment/outreach-hub/repository"
	"github.com/sequipment/outreach-hub/utils"
	"go.uber.org/zap"
)

// DashboardFlowImpl aggregates the call log and campaign datasets into the
// manager dashboard. Results are cached briefly in Redis when a client is
// configured; the dashboard tolerates a short staleness window.
type DashboardFlowImpl struct {
	store    *repository.CallLogStore
	datasets repository.DatasetRepository
	cache    *redis.Client
	cacheTTL time.Duration
	prefix   string
	logger   *zap.Logger
}

func NewDashboardFlow(
	store *repository.CallLogStore,
	datasets repository.DatasetRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	cachePrefix string,
	logger *zap.Logger,
) DashboardFlow {
	return &DashboardFlowImpl{
		store:    store,
		datasets: datasets,
		cache:    cache,
		cacheTTL: cacheTTL,
		prefix:   cachePrefix,
		logger:   logger,
	}
}

func (f *DashboardFlowImpl) cacheKey(month int) string {
	return fmt.Sprintf("%sdashboard:%d", f.prefix, month)
}

func (f *DashboardFlowImpl) Dashboard(ctx context.Context, month int) (*dto.DashboardResponse, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	if f.cache != nil {
		if bs, err := f.cache.Get(ctx, f.cacheKey(month)).Bytes(); err == nil {
			var cached dto.DashboardResponse
			if jerr := json.Unmarshal(bs, &cached); jerr == nil {
				return &cached, nil
			}
		}
	}

	log := f.store.Snapshot()
	resp := &dto.DashboardResponse{
		Summary:        f.summary(log),
		Campaigns:      f.campaignProgress(log, month),
		Branches:       f.branchActivity(log),
		RecentActivity: f.recentActivity(log),
		Leaderboard:    f.leaderboard(log),
	}

	if f.cache != nil {
		if bs, err := json.Marshal(resp); err == nil {
			if serr := f.cache.Set(ctx, f.cacheKey(month), bs, f.cacheTTL).Err(); serr != nil {
				f.logger.Warn("failed to cache dashboard", zap.Error(serr))
			}
		}
	}
	return resp, nil
}

func (f *DashboardFlowImpl) summary(log callLog) dto.DashboardSummaryDTO {
	s := dto.DashboardSummaryDTO{TotalEntries: len(log)}
	users := make(map[string]struct{})
	today := utils.UTCNow().Format("2006-01-02")
	for _, e := range log {
		if e.Called {
			s.TotalCalled++
			if strings.HasPrefix(e.DateUpdated, today) {
				s.CallsToday++
			}
		}
		if e.Followup {
			s.TotalFollowups++
		}
		if strings.TrimSpace(e.Notes) != "" {
			s.TotalNotes++
		}
		if e.User != "" {
			users[e.User] = struct{}{}
		}
	}
	s.UniqueUsers = len(users)
	return s
}

// campaignProgress reports company-wide completion per campaign, service
// scoped to the given month.
func (f *DashboardFlowImpl) campaignProgress(log callLog, month int) []dto.CampaignProgressDTO {
	progress := make([]dto.CampaignProgressDTO, 0, 6)

	add := func(code models.CampaignCode, title string, targets, called int) {
		p := dto.CampaignProgressDTO{
			Campaign:  code.String(),
			Title:     title,
			Targets:   targets,
			Called:    called,
			Remaining: targets - called,
		}
		if targets > 0 {
			// integer division floors the percent
			p.Percent = called * 100 / targets
		}
		progress = append(progress, p)
	}
	called := func(code models.CampaignCode, id string) int {
		if e, ok := log[models.NewLogKey(code, id)]; ok && e.Called {
			return 1
		}
		return 0
	}

	var n int
	for _, r := range f.datasets.Recovery() {
		n += called(models.CampaignRecovery, r.Customer)
	}
	add(models.CampaignRecovery, "Recovery", len(f.datasets.Recovery()), n)

	n = 0
	for _, r := range f.datasets.ConquestSN() {
		n += called(models.CampaignConquestSN, r.Company)
	}
	add(models.CampaignConquestSN, "Conquest SN", len(f.datasets.ConquestSN()), n)

	n = 0
	for _, r := range f.datasets.ConquestEDA() {
		n += called(models.CampaignConquestEDA, r.Company)
	}
	add(models.CampaignConquestEDA, "Conquest EDA", len(f.datasets.ConquestEDA()), n)

	n = 0
	for _, r := range f.datasets.Parts() {
		n += called(models.CampaignParts, r.Customer)
	}
	add(models.CampaignParts, "Parts Campaign", len(f.datasets.Parts()), n)

	n = 0
	for _, r := range f.datasets.Consignment() {
		n += called(models.CampaignConsignment, r.Account)
	}
	add(models.CampaignConsignment, "Consignment", len(f.datasets.Consignment()), n)

	n = 0
	svc := f.datasets.ServiceForMonth(month)
	for _, r := range svc {
		n += called(models.CampaignService, r.CustAcct)
	}
	add(models.CampaignService, fmt.Sprintf("Service (%s)", models.MonthNames[month]), len(svc), n)

	return progress
}

func (f *DashboardFlowImpl) branchActivity(log callLog) []dto.BranchActivityDTO {
	rows := make([]dto.BranchActivityDTO, 0, len(models.Branches))
	for _, branch := range models.BranchNames() {
		row := dto.BranchActivityDTO{Branch: branch}
		users := make(map[string]struct{})
		for _, e := range log {
			if e.BranchName != branch {
				continue
			}
			if e.Called {
				row.Calls++
			}
			if e.Followup {
				row.Followups++
			}
			if strings.TrimSpace(e.Notes) != "" {
				row.Notes++
			}
			if e.User != "" {
				users[e.User] = struct{}{}
			}
		}
		row.ActiveUsers = len(users)

		targets := f.datasets.BranchTargets(branch)
		row.RecoveryTargets = targets.Recovery
		row.ConquestTargets = targets.Conquest
		row.PartsTargets = targets.Parts
		row.ConsignmentTargets = targets.Consignment
		row.Targets = targets.Total
		if row.Targets > 0 {
			row.Percent = row.Calls * 100 / row.Targets
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Calls > rows[j].Calls })
	return rows
}

// recentActivity lists the latest called customers, newest first. The
// date_updated format sorts lexicographically.
func (f *DashboardFlowImpl) recentActivity(log callLog) []dto.RecentActivityDTO {
	recent := make([]dto.RecentActivityDTO, 0)
	for k, e := range log {
		if !e.Called {
			continue
		}
		customer := e.CustomerName
		if customer == "" {
			customer = string(k)
		}
		followup := ""
		if e.Followup {
			followup = "Yes"
		}
		notes := e.Notes
		if r := []rune(notes); len(r) > utils.RecentNotesPreviewLen {
			notes = string(r[:utils.RecentNotesPreviewLen]) + "..."
		}
		recent = append(recent, dto.RecentActivityDTO{
			Customer: customer,
			Branch:   e.BranchName,
			User:     e.User,
			FollowUp: followup,
			Notes:    notes,
			Date:     e.DateUpdated,
			Campaign: k.CampaignLabel(),
		})
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date > recent[j].Date })
	if len(recent) > utils.RecentActivityLimit {
		recent = recent[:utils.RecentActivityLimit]
	}
	return recent
}

func (f *DashboardFlowImpl) leaderboard(log callLog) []dto.LeaderboardEntryDTO {
	counts := make(map[string]int)
	for _, e := range log {
		if !e.Called {
			continue
		}
		user := e.User
		if user == "" {
			user = "Unknown"
		}
		counts[user]++
	}
	board := make([]dto.LeaderboardEntryDTO, 0, len(counts))
	for user, calls := range counts {
		board = append(board, dto.LeaderboardEntryDTO{User: user, Calls: calls})
	}
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Calls != board[j].Calls {
			return board[i].Calls > board[j].Calls
		}
		return board[i].User < board[j].User
	})
	if len(board) > utils.LeaderboardLimit {
		board = board[:utils.LeaderboardLimit]
	}
	return board
}
