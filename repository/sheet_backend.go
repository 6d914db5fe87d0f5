package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sequipment/outreach-hub/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Column order of the shared call log worksheet. This is a compatibility
// contract with the existing workbook data and must not change.
var sheetHeader = []string{
	"log_key", "customer_name", "branch_name", "called",
	"followup", "notes", "user", "date_updated", "campaign",
}

// SheetBackend persists the call log to a shared workbook, one worksheet with
// the fixed nine-column header. Other sessions write the same file through
// their own processes; row-level conflicts resolve last-write-wins.
type SheetBackend struct {
	path      string
	worksheet string
	checkTTL  time.Duration

	mu        sync.Mutex
	ensuredAt time.Time
	logger    *zap.Logger
}

// NewSheetBackend creates a sheet backend for the workbook at path. checkTTL
// bounds how often the workbook bootstrap check re-runs.
func NewSheetBackend(path, worksheet string, checkTTL time.Duration, logger *zap.Logger) *SheetBackend {
	if worksheet == "" {
		worksheet = "call_log"
	}
	if checkTTL <= 0 {
		checkTTL = 5 * time.Minute
	}
	return &SheetBackend{
		path:      path,
		worksheet: worksheet,
		checkTTL:  checkTTL,
		logger:    logger,
	}
}

// Connect verifies the workbook is reachable, creating the file, worksheet
// and header on first use. The check result is cached for checkTTL so hot
// paths do not re-stat the shared path on every operation.
func (b *SheetBackend) Connect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ensureWorkbookLocked()
}

func (b *SheetBackend) ensureWorkbookLocked() error {
	if time.Since(b.ensuredAt) < b.checkTTL {
		return nil
	}
	if b.path == "" {
		return fmt.Errorf("sheet workbook path is not configured")
	}

	if _, err := os.Stat(b.path); os.IsNotExist(err) {
		if err := b.bootstrapWorkbook(); err != nil {
			return fmt.Errorf("failed to create call log workbook: %w", err)
		}
		b.ensuredAt = time.Now()
		return nil
	} else if err != nil {
		return fmt.Errorf("call log workbook is not accessible: %w", err)
	}

	f, err := excelize.OpenFile(b.path)
	if err != nil {
		return fmt.Errorf("failed to open call log workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	idx, err := f.GetSheetIndex(b.worksheet)
	if err != nil {
		return fmt.Errorf("failed to inspect call log workbook: %w", err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(b.worksheet); err != nil {
			return fmt.Errorf("failed to add call log worksheet: %w", err)
		}
		if err := f.SetSheetRow(b.worksheet, "A1", &sheetHeader); err != nil {
			return fmt.Errorf("failed to write call log header: %w", err)
		}
		if err := f.Save(); err != nil {
			return fmt.Errorf("failed to save call log workbook: %w", err)
		}
		if b.logger != nil {
			b.logger.Info("created call log worksheet", zap.String("worksheet", b.worksheet))
		}
	}

	b.ensuredAt = time.Now()
	return nil
}

func (b *SheetBackend) bootstrapWorkbook() error {
	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	f.SetSheetName(f.GetSheetName(0), b.worksheet)
	if err := f.SetSheetRow(b.worksheet, "A1", &sheetHeader); err != nil {
		return err
	}
	if err := f.SaveAs(b.path); err != nil {
		return err
	}
	if b.logger != nil {
		b.logger.Info("bootstrapped call log workbook", zap.String("path", b.path))
	}
	return nil
}

// open opens the workbook for one operation, forcing a fresh bootstrap check
// on the next call when opening fails.
func (b *SheetBackend) open() (*excelize.File, error) {
	if err := b.ensureWorkbookLocked(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(b.path)
	if err != nil {
		b.ensuredAt = time.Time{}
		return nil, fmt.Errorf("failed to open call log workbook: %w", err)
	}
	return f, nil
}

// LoadAll reads every logged row. Rows with an empty log_key are skipped; the
// string-encoded called/followup flags are parsed case-insensitively so the
// workbook stays hand-editable.
func (b *SheetBackend) LoadAll(ctx context.Context) (map[models.LogKey]models.CallEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(b.worksheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read call log rows: %w", err)
	}

	log := make(map[models.LogKey]models.CallEntry)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		key := cellValue(row, 0)
		if key == "" {
			continue
		}
		log[models.LogKey(key)] = models.CallEntry{
			CustomerName: cellValue(row, 1),
			BranchName:   cellValue(row, 2),
			Called:       parseSheetBool(cellValue(row, 3)),
			Followup:     parseSheetBool(cellValue(row, 4)),
			Notes:        cellValue(row, 5),
			User:         cellValue(row, 6),
			DateUpdated:  cellValue(row, 7),
		}
	}
	return log, nil
}

// UpsertRow overwrites the existing row for the key in place, or appends a
// new row. The row search is linear over column A, which is acceptable at the
// hundreds-to-low-thousands row counts the log carries.
func (b *SheetBackend) UpsertRow(ctx context.Context, key models.LogKey, entry models.CallEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	record := []string{
		string(key),
		entry.CustomerName,
		entry.BranchName,
		sheetBool(entry.Called),
		sheetBool(entry.Followup),
		entry.Notes,
		entry.User,
		entry.DateUpdated,
		sheetCampaign(key),
	}

	rows, err := f.GetRows(b.worksheet)
	if err != nil {
		return fmt.Errorf("failed to read call log rows: %w", err)
	}
	target := len(rows) + 1 // append position
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cellValue(row, 0) == string(key) {
			target = i + 1
			break
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, target)
	if err != nil {
		return fmt.Errorf("failed to address call log row: %w", err)
	}
	if err := f.SetSheetRow(b.worksheet, cell, &record); err != nil {
		return fmt.Errorf("failed to write call log row: %w", err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save call log workbook: %w", err)
	}
	return nil
}

// DeleteRow removes the row for the key. A key with no row is success: the
// delete is already satisfied.
func (b *SheetBackend) DeleteRow(ctx context.Context, key models.LogKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(b.worksheet)
	if err != nil {
		return fmt.Errorf("failed to read call log rows: %w", err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if cellValue(row, 0) == string(key) {
			if err := f.RemoveRow(b.worksheet, i+1); err != nil {
				return fmt.Errorf("failed to remove call log row: %w", err)
			}
			if err := f.Save(); err != nil {
				return fmt.Errorf("failed to save call log workbook: %w", err)
			}
			return nil
		}
	}
	return nil
}

func cellValue(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// Booleans are persisted as the literal strings "True"/"False" to stay
// interoperable with the existing workbook data.
func sheetBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func parseSheetBool(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// sheetCampaign derives the campaign column from the key prefix, collapsing
// both conquest datasets to "conquest".
func sheetCampaign(key models.LogKey) string {
	if strings.Contains(string(key), models.CampaignConquestPrefix) {
		return models.CampaignConquestPrefix
	}
	return key.CampaignPrefix()
}
