package businessflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sequipment/outreach-hub/app/dto"
	"github.com/sequipment/outreach-hub/models"
	"github.com/sequipment/outreach-hub/repository"
	"github.com/sequipment/outreach-hub/utils"
)

// fakeDatasets serves in-memory campaign rows without touching disk.
type fakeDatasets struct {
	recovery    []models.RecoveryRow
	conquestSN  []models.ConquestSNRow
	conquestEDA []models.ConquestEDARow
	parts       []models.PartsRow
	service     []models.ServiceRow
	consignment []models.ConsignmentRow
}

func (d *fakeDatasets) Recovery() []models.RecoveryRow       { return d.recovery }
func (d *fakeDatasets) ConquestSN() []models.ConquestSNRow   { return d.conquestSN }
func (d *fakeDatasets) ConquestEDA() []models.ConquestEDARow { return d.conquestEDA }
func (d *fakeDatasets) Parts() []models.PartsRow             { return d.parts }
func (d *fakeDatasets) Consignment() []models.ConsignmentRow { return d.consignment }

func (d *fakeDatasets) ServiceForMonth(month int) []models.ServiceRow {
	var out []models.ServiceRow
	for _, row := range d.service {
		if row.TargetMonth == month {
			out = append(out, row)
		}
	}
	return out
}

func (d *fakeDatasets) BranchTargets(branch string) repository.BranchTargets {
	var t repository.BranchTargets
	for _, row := range d.recovery {
		if row.Branch == branch {
			t.Recovery++
		}
	}
	for _, row := range d.conquestSN {
		if row.Branch == branch {
			t.Conquest++
		}
	}
	for _, row := range d.conquestEDA {
		if row.Branch == branch {
			t.Conquest++
		}
	}
	for _, row := range d.parts {
		if row.BranchName == branch {
			t.Parts++
		}
	}
	for _, row := range d.consignment {
		if row.Branch == branch {
			t.Consignment++
		}
	}
	t.Total = t.Recovery + t.Conquest + t.Parts + t.Consignment
	return t
}

func markCalled(t *testing.T, store *repository.CallLogStore, key string, user string) {
	t.Helper()
	require.NoError(t, store.Upsert(context.Background(),
		models.LogKey(key), models.CallEntry{Called: true, User: user}))
}

func TestCampaignCards(t *testing.T) {
	ctx := context.Background()

	datasets := &fakeDatasets{
		recovery: []models.RecoveryRow{
			{Customer: "ACME-100", Branch: "Cambridge", DeclineAmount: 1000},
			{Customer: "BETA-200", Branch: "Columbus", DeclineAmount: 500},
		},
		conquestSN: []models.ConquestSNRow{
			{Company: "Widget Co", Branch: "Cambridge", HeatScore: 80},
		},
		conquestEDA: []models.ConquestEDARow{
			{Company: "Gadget Co", Branch: "Cambridge", Score: 70},
		},
		parts: []models.PartsRow{
			{Customer: "5001", CustomerName: "ACME", BranchName: "Cambridge"},
		},
		service: []models.ServiceRow{
			{CustAcct: "1001", BranchName: "Cambridge", TargetMonth: 3, Tier: models.ServiceTierStrong},
			{CustAcct: "1002", BranchName: "Cambridge", TargetMonth: 7, Tier: models.ServiceTierGood},
		},
		consignment: []models.ConsignmentRow{
			{Account: "9001", Branch: "Cambridge", Readiness: 90},
		},
	}

	t.Run("MergesConquestAndScopesService", func(t *testing.T) {
		store := newTestStore(t)
		markCalled(t, store, "conquest_sn_Widget Co", "jdoe")
		markCalled(t, store, "recovery_ACME-100", "jdoe")
		flow := NewCampaignFlow(store, datasets, zap.NewNop())

		resp, err := flow.Cards(ctx, "Cambridge", 3)
		require.NoError(t, err)
		require.Len(t, resp.Cards, 5)
		assert.Equal(t, "March", resp.MonthName)

		byName := make(map[string]dto.CampaignCardDTO)
		for _, c := range resp.Cards {
			byName[c.Campaign] = c
		}

		assert.Equal(t, 1, byName["recovery"].Targets)
		assert.Equal(t, 1, byName["recovery"].Called)
		// both conquest datasets fold into the one card
		assert.Equal(t, 2, byName["conquest"].Targets)
		assert.Equal(t, 1, byName["conquest"].Called)
		// only the March service target counts
		assert.Equal(t, 1, byName["service"].Targets)
		assert.Equal(t, 1, byName["consignment"].Targets)

		assert.Equal(t, 6, resp.TotalTargets)
		assert.Equal(t, 2, resp.TotalCalled)
	})

	t.Run("OtherBranchEntriesDontCount", func(t *testing.T) {
		store := newTestStore(t)
		markCalled(t, store, "recovery_BETA-200", "jdoe")
		flow := NewCampaignFlow(store, datasets, zap.NewNop())

		resp, err := flow.Cards(ctx, "Cambridge", 3)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.TotalCalled)
	})

	t.Run("UnknownBranchRejected", func(t *testing.T) {
		flow := NewCampaignFlow(newTestStore(t), datasets, zap.NewNop())

		_, err := flow.Cards(ctx, "Springfield", 3)
		assert.ErrorIs(t, err, ErrUnknownBranch)

		_, err = flow.Cards(ctx, "  ", 3)
		assert.ErrorIs(t, err, ErrBranchRequired)
	})

	t.Run("InvalidMonthRejected", func(t *testing.T) {
		flow := NewCampaignFlow(newTestStore(t), datasets, zap.NewNop())

		_, err := flow.Cards(ctx, "Cambridge", 0)
		assert.ErrorIs(t, err, ErrInvalidMonth)
		_, err = flow.Cards(ctx, "Cambridge", 13)
		assert.ErrorIs(t, err, ErrInvalidMonth)
	})
}

func TestCampaignTargets(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownCampaignRejected", func(t *testing.T) {
		flow := NewCampaignFlow(newTestStore(t), &fakeDatasets{}, zap.NewNop())

		_, err := flow.Targets(ctx, "conquest", TargetsQuery{Branch: "Cambridge"})
		assert.ErrorIs(t, err, ErrInvalidCampaign)
	})

	t.Run("RecoverySortsUncalledFirstThenDecline", func(t *testing.T) {
		datasets := &fakeDatasets{recovery: []models.RecoveryRow{
			{Customer: "LOW", Branch: "Cambridge", DeclineAmount: 100},
			{Customer: "CALLED", Branch: "Cambridge", DeclineAmount: 9000},
			{Customer: "HIGH", Branch: "Cambridge", DeclineAmount: 5000},
		}}
		store := newTestStore(t)
		markCalled(t, store, "recovery_CALLED", "jdoe")
		flow := NewCampaignFlow(store, datasets, zap.NewNop())

		resp, err := flow.Targets(ctx, "recovery", TargetsQuery{Branch: "Cambridge"})
		require.NoError(t, err)

		rows := resp.Rows.([]dto.RecoveryTargetDTO)
		require.Len(t, rows, 3)
		assert.Equal(t, "HIGH", rows[0].Customer)
		assert.Equal(t, "LOW", rows[1].Customer)
		// the called row sinks to the bottom despite the biggest decline
		assert.Equal(t, "CALLED", rows[2].Customer)
	})

	t.Run("CountsCoverHiddenRows", func(t *testing.T) {
		datasets := &fakeDatasets{recovery: []models.RecoveryRow{
			{Customer: "A", Branch: "Cambridge"},
			{Customer: "B", Branch: "Cambridge"},
		}}
		store := newTestStore(t)
		markCalled(t, store, "recovery_A", "jdoe")
		flow := NewCampaignFlow(store, datasets, zap.NewNop())

		resp, err := flow.Targets(ctx, "recovery", TargetsQuery{Branch: "Cambridge", HideCalled: true})
		require.NoError(t, err)

		rows := resp.Rows.([]dto.RecoveryTargetDTO)
		require.Len(t, rows, 1)
		assert.Equal(t, "B", rows[0].Customer)
		// totals reflect the full branch list, not the filtered view
		assert.Equal(t, 2, resp.TotalTargets)
		assert.Equal(t, 1, resp.CalledCount)
	})

	t.Run("SearchFiltersByName", func(t *testing.T) {
		datasets := &fakeDatasets{recovery: []models.RecoveryRow{
			{Customer: "ACME Excavating", Branch: "Cambridge"},
			{Customer: "Beta Hauling", Branch: "Cambridge"},
		}}
		flow := NewCampaignFlow(newTestStore(t), datasets, zap.NewNop())

		resp, err := flow.Targets(ctx, "recovery", TargetsQuery{Branch: "Cambridge", Search: "acme"})
		require.NoError(t, err)

		rows := resp.Rows.([]dto.RecoveryTargetDTO)
		require.Len(t, rows, 1)
		assert.Equal(t, "ACME Excavating", rows[0].Customer)
	})

	t.Run("ConquestSortsByHeatAndCapsRows", func(t *testing.T) {
		datasets := &fakeDatasets{}
		for i := 0; i < utils.ConquestRowLimit+10; i++ {
			datasets.conquestSN = append(datasets.conquestSN, models.ConquestSNRow{
				Company:   fmt.Sprintf("Company %03d", i),
				Branch:    "Cambridge",
				HeatScore: i,
			})
		}
		flow := NewCampaignFlow(newTestStore(t), datasets, zap.NewNop())

		resp, err := flow.Targets(ctx, "conquest_sn", TargetsQuery{Branch: "Cambridge"})
		require.NoError(t, err)

		rows := resp.Rows.([]dto.ConquestSNTargetDTO)
		require.Len(t, rows, utils.ConquestRowLimit)
		assert.Equal(t, utils.ConquestRowLimit+10, resp.TotalTargets)
		assert.Equal(t, utils.ConquestRowLimit+9, rows[0].HeatScore)
	})

	t.Run("ServiceRequiresMonthAndSortsByTier", func(t *testing.T) {
		datasets := &fakeDatasets{service: []models.ServiceRow{
			{CustAcct: "1", CustName: "Target Co", BranchName: "Cambridge", TargetMonth: 3, Tier: models.ServiceTierTarget, MonthRevenue: 9000},
			{CustAcct: "2", CustName: "Strong Co", BranchName: "Cambridge", TargetMonth: 3, Tier: models.ServiceTierStrong, MonthRevenue: 100},
			{CustAcct: "3", CustName: "Good Co", BranchName: "Cambridge", TargetMonth: 3, Tier: models.ServiceTierGood, MonthRevenue: 500},
			{CustAcct: "4", CustName: "July Co", BranchName: "Cambridge", TargetMonth: 7, Tier: models.ServiceTierStrong, MonthRevenue: 100},
		}}
		flow := NewCampaignFlow(newTestStore(t), datasets, zap.NewNop())

		_, err := flow.Targets(ctx, "service", TargetsQuery{Branch: "Cambridge"})
		assert.ErrorIs(t, err, ErrInvalidMonth)

		resp, err := flow.Targets(ctx, "service", TargetsQuery{Branch: "Cambridge", Month: 3})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Month)

		rows := resp.Rows.([]dto.ServiceTargetDTO)
		require.Len(t, rows, 3)
		assert.Equal(t, "Strong Co", rows[0].CustName)
		assert.Equal(t, "Good Co", rows[1].CustName)
		assert.Equal(t, "Target Co", rows[2].CustName)
	})

	t.Run("ServiceSearchMatchesEquipment", func(t *testing.T) {
		datasets := &fakeDatasets{service: []models.ServiceRow{
			{CustAcct: "1", CustName: "ACME", BranchName: "Cambridge", TargetMonth: 3, Equipment: "Excavator 320"},
			{CustAcct: "2", CustName: "BETA", BranchName: "Cambridge", TargetMonth: 3, Equipment: "Dozer D6"},
		}}
		flow := NewCampaignFlow(newTestStore(t), datasets, zap.NewNop())

		resp, err := flow.Targets(ctx, "service", TargetsQuery{Branch: "Cambridge", Month: 3, Search: "dozer"})
		require.NoError(t, err)

		rows := resp.Rows.([]dto.ServiceTargetDTO)
		require.Len(t, rows, 1)
		assert.Equal(t, "BETA", rows[0].CustName)
	})

	t.Run("ConsignmentSortsByReadiness", func(t *testing.T) {
		datasets := &fakeDatasets{consignment: []models.ConsignmentRow{
			{Account: "A", Branch: "Cambridge", Readiness: 40},
			{Account: "B", Branch: "Cambridge", Readiness: 95},
			{Account: "C", Branch: "Cambridge", Readiness: 70},
		}}
		flow := NewCampaignFlow(newTestStore(t), datasets, zap.NewNop())

		resp, err := flow.Targets(ctx, "consignment", TargetsQuery{Branch: "Cambridge"})
		require.NoError(t, err)

		rows := resp.Rows.([]dto.ConsignmentTargetDTO)
		require.Len(t, rows, 3)
		assert.Equal(t, "B", rows[0].Account)
		assert.Equal(t, "C", rows[1].Account)
		assert.Equal(t, "A", rows[2].Account)
	})

	t.Run("PartsFallsBackToAccountNumber", func(t *testing.T) {
		datasets := &fakeDatasets{parts: []models.PartsRow{
			{Customer: "5001", CustomerName: "", BranchName: "Cambridge"},
		}}
		flow := NewCampaignFlow(newTestStore(t), datasets, zap.NewNop())

		resp, err := flow.Targets(ctx, "parts", TargetsQuery{Branch: "Cambridge"})
		require.NoError(t, err)

		rows := resp.Rows.([]dto.PartsTargetDTO)
		require.Len(t, rows, 1)
		assert.Equal(t, "5001", rows[0].CustomerName)
	})

	t.Run("RowsCarryLogState", func(t *testing.T) {
		datasets := &fakeDatasets{recovery: []models.RecoveryRow{
			{Customer: "ACME", Branch: "Cambridge"},
		}}
		store := newTestStore(t)
		require.NoError(t, store.Upsert(ctx, models.LogKey("recovery_ACME"),
			models.CallEntry{Followup: true, Notes: "call back Tuesday", User: "jdoe"}))
		flow := NewCampaignFlow(store, datasets, zap.NewNop())

		resp, err := flow.Targets(ctx, "recovery", TargetsQuery{Branch: "Cambridge"})
		require.NoError(t, err)

		rows := resp.Rows.([]dto.RecoveryTargetDTO)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Entry.Followup)
		assert.Equal(t, "call back Tuesday", rows[0].Entry.Notes)
		assert.Equal(t, 1, resp.FollowupCount)
		assert.Equal(t, 0, resp.CalledCount)
	})
}
