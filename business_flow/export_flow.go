package businessflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/sequipment/outreach-hub/models"
	"github.com/sequipment/outreach-hub/repository"
	"github.com/sequipment/outreach-hub/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Export column order. The CSV form is consumed by downstream reporting and
// must keep these headers.
var exportHeader = []string{
	"Key", "Customer", "Branch", "User", "Called",
	"Follow-Up", "Notes", "Date", "Campaign",
}

const exportSheetName = "Call Log"

// ExportFlowImpl renders the call log as a downloadable CSV or workbook.
type ExportFlowImpl struct {
	store  *repository.CallLogStore
	logger *zap.Logger
}

func NewExportFlow(store *repository.CallLogStore, logger *zap.Logger) ExportFlow {
	return &ExportFlowImpl{store: store, logger: logger}
}

func (f *ExportFlowImpl) Export(ctx context.Context, format string) (*ExportResult, error) {
	log := f.store.Snapshot()
	if len(log) == 0 {
		return nil, NewBusinessError("NO_ENTRIES", "no call log entries to export", ErrNoEntriesToExport)
	}

	rows := exportRows(log)
	stamp := utils.UTCNow().Format("20060102")

	switch strings.ToLower(format) {
	case "", "csv":
		data, err := renderCSV(rows)
		if err != nil {
			return nil, NewBusinessError("EXPORT_FAILED", "failed to render export", err)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("outreach_log_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "xlsx":
		data, err := renderXLSX(rows)
		if err != nil {
			return nil, NewBusinessError("EXPORT_FAILED", "failed to render export", err)
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("outreach_log_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, NewBusinessError("EXPORT_FORMAT", "unsupported export format", ErrExportFormat)
	}
}

// exportRows flattens the log into export records ordered by key.
func exportRows(log map[models.LogKey]models.CallEntry) [][]string {
	keys := make([]models.LogKey, 0, len(log))
	for k := range log {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		e := log[k]
		rows = append(rows, []string{
			string(k),
			e.CustomerName,
			e.BranchName,
			e.User,
			exportBool(e.Called),
			exportBool(e.Followup),
			e.Notes,
			e.DateUpdated,
			k.CampaignPrefix(),
		})
	}
	return rows
}

func exportBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName(f.GetSheetName(0), exportSheetName)
	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(exportSheetName, cell, &r); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
