package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sequipment/outreach-hub/models"
	"go.uber.org/zap"
)

// Campaign dataset filenames, resolved against the configured data directory.
const (
	recoveryFile    = "data_recovery.csv"
	conquestSNFile  = "data_conquest_sn.csv"
	conquestEDAFile = "data_conquest_eda.csv"
	partsFile       = "data_parts_campaign.csv"
	serviceFile     = "data_service_seasonality.csv"
	consignmentFile = "data_consignment.csv"
)

// CSVDatasetRepository serves the read-only campaign target lists from CSV
// files. Files are loaded once at startup; a missing or unreadable file
// yields an empty dataset so one broken export never takes the service down.
type CSVDatasetRepository struct {
	recovery    []models.RecoveryRow
	conquestSN  []models.ConquestSNRow
	conquestEDA []models.ConquestEDARow
	parts       []models.PartsRow
	service     []models.ServiceRow
	consignment []models.ConsignmentRow
}

func NewCSVDatasetRepository(dir string, logger *zap.Logger) *CSVDatasetRepository {
	r := &CSVDatasetRepository{}

	load := func(name string, parse func(rec csvRecord)) {
		path := filepath.Join(dir, name)
		records, err := readCSV(path)
		if err != nil {
			if logger != nil {
				logger.Warn("campaign dataset unavailable", zap.String("file", name), zap.Error(err))
			}
			return
		}
		for _, rec := range records {
			parse(rec)
		}
	}

	load(recoveryFile, func(rec csvRecord) {
		r.recovery = append(r.recovery, models.RecoveryRow{
			Customer:      rec.str("customer"),
			Branch:        rec.str("branch"),
			Action:        rec.str("action"),
			DeclineAmount: rec.float("decline_amount"),
		})
	})
	load(conquestSNFile, func(rec csvRecord) {
		r.conquestSN = append(r.conquestSN, models.ConquestSNRow{
			Company:           rec.str("company"),
			Branch:            rec.str("branch"),
			HeatScore:         rec.int("heat_score"),
			SECFleet:          rec.int("sec_fleet"),
			HistoricalRevenue: rec.float("historical_revenue"),
			Contact:           rec.str("contact"),
			Phone:             rec.str("phone"),
			City:              rec.str("city"),
			State:             rec.str("state"),
		})
	})
	load(conquestEDAFile, func(rec csvRecord) {
		r.conquestEDA = append(r.conquestEDA, models.ConquestEDARow{
			Company:  rec.str("company"),
			Branch:   rec.str("branch"),
			Score:    rec.int("score"),
			SECUnits: rec.int("sec_units"),
			SECValue: rec.float("sec_value"),
			Contact:  rec.str("contact"),
			Phone:    rec.str("phone"),
			City:     rec.str("city"),
			State:    rec.str("state"),
		})
	})
	load(partsFile, func(rec csvRecord) {
		r.parts = append(r.parts, models.PartsRow{
			Customer:     rec.str("Customer"),
			CustomerName: rec.str("CustomerName"),
			BranchName:   rec.str("BranchName"),
			Equipment:    rec.str("Equipment"),
			Categories:   rec.str("Categories"),
		})
	})
	load(serviceFile, func(rec csvRecord) {
		r.service = append(r.service, models.ServiceRow{
			CustAcct:     rec.str("cust_acct"),
			CustName:     rec.str("cust_name"),
			BranchName:   rec.str("branch_name"),
			TargetMonth:  rec.int("target_month"),
			Tier:         rec.str("tier"),
			MonthRevenue: rec.float("month_revenue"),
			Equipment:    rec.str("equipment"),
			History:      rec.str("history"),
			GLDesc:       rec.str("gl_desc"),
			YearPattern:  rec.str("year_pattern"),
		})
	})
	load(consignmentFile, func(rec csvRecord) {
		r.consignment = append(r.consignment, models.ConsignmentRow{
			Account:     rec.str("Account"),
			Customer:    rec.str("Customer"),
			Branch:      rec.str("Branch"),
			Readiness:   rec.int("Readiness"),
			Phase:       rec.int("Phase"),
			Equipment:   rec.str("Equipment"),
			TopParts:    rec.str("Top_Parts"),
			RepeatParts: rec.int("Repeat_Parts"),
			StockCost:   rec.float("Stock Cost"),
			SellValue:   rec.float("Sell Value"),
			GrossMargin: rec.float("GM%"),
			BinROI:      rec.float("Bin ROI"),
			PeakSeason:  rec.str("Peak Season"),
			RevPriorYr:  rec.float("Rev 2025"),
			Trend:       rec.str("Trend"),
		})
	})

	if logger != nil {
		logger.Info("campaign datasets loaded",
			zap.Int("recovery", len(r.recovery)),
			zap.Int("conquest_sn", len(r.conquestSN)),
			zap.Int("conquest_eda", len(r.conquestEDA)),
			zap.Int("parts", len(r.parts)),
			zap.Int("service", len(r.service)),
			zap.Int("consignment", len(r.consignment)),
		)
	}
	return r
}

func (r *CSVDatasetRepository) Recovery() []models.RecoveryRow       { return r.recovery }
func (r *CSVDatasetRepository) ConquestSN() []models.ConquestSNRow   { return r.conquestSN }
func (r *CSVDatasetRepository) ConquestEDA() []models.ConquestEDARow { return r.conquestEDA }
func (r *CSVDatasetRepository) Parts() []models.PartsRow             { return r.parts }
func (r *CSVDatasetRepository) Consignment() []models.ConsignmentRow { return r.consignment }

// ServiceForMonth returns the service seasonality targets due in the given
// month (1 through 12).
func (r *CSVDatasetRepository) ServiceForMonth(month int) []models.ServiceRow {
	var out []models.ServiceRow
	for _, row := range r.service {
		if row.TargetMonth == month {
			out = append(out, row)
		}
	}
	return out
}

// BranchTargets counts the targets assigned to one branch across the
// year-round campaigns. Service is excluded: its targets rotate monthly.
func (r *CSVDatasetRepository) BranchTargets(branch string) BranchTargets {
	var t BranchTargets
	for _, row := range r.recovery {
		if row.Branch == branch {
			t.Recovery++
		}
	}
	for _, row := range r.conquestSN {
		if row.Branch == branch {
			t.Conquest++
		}
	}
	for _, row := range r.conquestEDA {
		if row.Branch == branch {
			t.Conquest++
		}
	}
	for _, row := range r.parts {
		if row.BranchName == branch {
			t.Parts++
		}
	}
	for _, row := range r.consignment {
		if row.Branch == branch {
			t.Consignment++
		}
	}
	t.Total = t.Recovery + t.Conquest + t.Parts + t.Consignment
	return t
}

// csvRecord is one data row indexed by header name.
type csvRecord struct {
	index map[string]int
	row   []string
}

func (r csvRecord) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	v := strings.TrimSpace(r.row[i])
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

// float parses a numeric cell, tolerating currency formatting like "$1,250".
func (r csvRecord) float(col string) float64 {
	v := strings.ReplaceAll(r.str(col), ",", "")
	v = strings.TrimPrefix(v, "$")
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func (r csvRecord) int(col string) int {
	return int(r.float(col))
}

func readCSV(path string) ([]csvRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		index[strings.TrimSpace(col)] = i
	}

	records := make([]csvRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, csvRecord{index: index, row: row})
	}
	return records, nil
}
