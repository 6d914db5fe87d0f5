package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sequipment/outreach-hub/models"
)

func newTestSheetBackend(t *testing.T) *SheetBackend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "call_log.xlsx")
	return NewSheetBackend(path, "call_log", time.Minute, zap.NewNop())
}

func TestSheetBackendBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("ConnectCreatesWorkbookWithHeader", func(t *testing.T) {
		backend := newTestSheetBackend(t)
		require.NoError(t, backend.Connect(ctx))

		f, err := excelize.OpenFile(backend.path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows("call_log")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, sheetHeader, rows[0])
	})

	t.Run("EmptyPathFails", func(t *testing.T) {
		backend := NewSheetBackend("", "call_log", time.Minute, zap.NewNop())
		assert.Error(t, backend.Connect(ctx))
	})

	t.Run("LoadAllOnFreshWorkbookIsEmpty", func(t *testing.T) {
		backend := newTestSheetBackend(t)
		log, err := backend.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, log)
	})
}

func TestSheetBackendRows(t *testing.T) {
	ctx := context.Background()

	t.Run("UpsertAppendsAndLoads", func(t *testing.T) {
		backend := newTestSheetBackend(t)

		key := models.LogKey("recovery_ACME-100")
		entry := models.CallEntry{
			CustomerName: "ACME Excavating",
			BranchName:   "Cambridge",
			Called:       true,
			Notes:        "left voicemail",
			User:         "jdoe",
			DateUpdated:  "2026-08-29 14:05",
		}
		require.NoError(t, backend.UpsertRow(ctx, key, entry))

		log, err := backend.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, log, 1)
		assert.Equal(t, entry, log[key])
	})

	t.Run("UpsertUpdatesInPlace", func(t *testing.T) {
		backend := newTestSheetBackend(t)

		key := models.LogKey("parts_5001")
		require.NoError(t, backend.UpsertRow(ctx, key, models.CallEntry{Called: true, User: "jdoe"}))
		require.NoError(t, backend.UpsertRow(ctx, key, models.CallEntry{Called: true, Followup: true, User: "msmith"}))

		f, err := excelize.OpenFile(backend.path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows("call_log")
		require.NoError(t, err)
		require.Len(t, rows, 2) // header plus the single updated row
		assert.Equal(t, "msmith", rows[1][6])
	})

	t.Run("BooleansPersistedAsTitleCaseLiterals", func(t *testing.T) {
		backend := newTestSheetBackend(t)

		key := models.LogKey("recovery_ACME-100")
		require.NoError(t, backend.UpsertRow(ctx, key, models.CallEntry{Called: true, Followup: false}))

		f, err := excelize.OpenFile(backend.path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows("call_log")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "True", rows[1][3])
		assert.Equal(t, "False", rows[1][4])
	})

	t.Run("BooleansParsedCaseInsensitively", func(t *testing.T) {
		backend := newTestSheetBackend(t)
		require.NoError(t, backend.Connect(ctx))

		f, err := excelize.OpenFile(backend.path)
		require.NoError(t, err)
		row := []string{"recovery_ACME", "ACME", "Cambridge", "TRUE", "true", "", "jdoe", "", "recovery"}
		require.NoError(t, f.SetSheetRow("call_log", "A2", &row))
		require.NoError(t, f.Save())
		require.NoError(t, f.Close())

		log, err := backend.LoadAll(ctx)
		require.NoError(t, err)
		entry := log[models.LogKey("recovery_ACME")]
		assert.True(t, entry.Called)
		assert.True(t, entry.Followup)
	})

	t.Run("CampaignColumnCollapsesConquest", func(t *testing.T) {
		backend := newTestSheetBackend(t)

		require.NoError(t, backend.UpsertRow(ctx, models.LogKey("conquest_sn_Widget Co"), models.CallEntry{Called: true}))
		require.NoError(t, backend.UpsertRow(ctx, models.LogKey("recovery_ACME"), models.CallEntry{Called: true}))

		f, err := excelize.OpenFile(backend.path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows("call_log")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "conquest", rows[1][8])
		assert.Equal(t, "recovery", rows[2][8])
	})

	t.Run("DeleteRemovesRow", func(t *testing.T) {
		backend := newTestSheetBackend(t)

		key := models.LogKey("recovery_ACME-100")
		require.NoError(t, backend.UpsertRow(ctx, key, models.CallEntry{Called: true}))
		require.NoError(t, backend.DeleteRow(ctx, key))

		log, err := backend.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, log)
	})

	t.Run("DeleteMissingKeyIsNoop", func(t *testing.T) {
		backend := newTestSheetBackend(t)
		assert.NoError(t, backend.DeleteRow(ctx, models.LogKey("recovery_GONE")))
	})

	t.Run("RowsWithEmptyKeySkipped", func(t *testing.T) {
		backend := newTestSheetBackend(t)
		require.NoError(t, backend.Connect(ctx))

		f, err := excelize.OpenFile(backend.path)
		require.NoError(t, err)
		blank := []string{"", "orphan row"}
		require.NoError(t, f.SetSheetRow("call_log", "A2", &blank))
		require.NoError(t, f.Save())
		require.NoError(t, f.Close())

		log, err := backend.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, log)
	})
}
