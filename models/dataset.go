package models

// Campaign dataset rows are read-only: they are loaded once from the static
// CSV exports and never written back. Each row carries the natural customer
// identifier its campaign keys log entries by, the owning branch, and the
// campaign-specific ranking fields the call lists sort on.

// RecoveryRow is one declining customer ranked by dollar opportunity.
type RecoveryRow struct {
	Customer      string  `json:"customer"`
	Branch        string  `json:"branch"`
	Action        string  `json:"action"`
	DeclineAmount float64 `json:"decline_amount"`
}

// ConquestSNRow is a warm conquest lead whose machine was serviced under a
// prior owner.
type ConquestSNRow struct {
	Company           string  `json:"company"`
	Branch            string  `json:"branch"`
	HeatScore         int     `json:"heat_score"`
	SECFleet          int     `json:"sec_fleet"`
	HistoricalRevenue float64 `json:"historical_revenue"`
	Contact           string  `json:"contact"`
	Phone             string  `json:"phone"`
	City              string  `json:"city"`
	State             string  `json:"state"`
}

// ConquestEDARow is a cold conquest prospect that owns supported brands but
// has never been a customer.
type ConquestEDARow struct {
	Company  string  `json:"company"`
	Branch   string  `json:"branch"`
	Score    int     `json:"score"`
	SECUnits int     `json:"sec_units"`
	SECValue float64 `json:"sec_value"`
	Contact  string  `json:"contact"`
	Phone    string  `json:"phone"`
	City     string  `json:"city"`
	State    string  `json:"state"`
}

// PartsRow is an existing customer targeted by seasonal parts buying
// patterns.
type PartsRow struct {
	Customer     string `json:"customer"`
	CustomerName string `json:"customer_name"`
	BranchName   string `json:"branch_name"`
	Equipment    string `json:"equipment"`
	Categories   string `json:"categories"`
}

// Service history tiers, strongest pattern first.
const (
	ServiceTierStrong = "STRONG"
	ServiceTierGood   = "GOOD"
	ServiceTierTarget = "TARGET"
)

// ServiceRow is a customer who historically services equipment in the row's
// target month.
type ServiceRow struct {
	CustAcct     string  `json:"cust_acct"`
	CustName     string  `json:"cust_name"`
	BranchName   string  `json:"branch_name"`
	TargetMonth  int     `json:"target_month"`
	Tier         string  `json:"tier"`
	MonthRevenue float64 `json:"month_revenue"`
	Equipment    string  `json:"equipment"`
	History      string  `json:"history"`
	GLDesc       string  `json:"gl_desc"`
	YearPattern  string  `json:"year_pattern"`
}

// ConsignmentRow is a consignment bin candidate ranked by readiness score.
type ConsignmentRow struct {
	Account     string  `json:"account"`
	Customer    string  `json:"customer"`
	Branch      string  `json:"branch"`
	Readiness   int     `json:"readiness"`
	Phase       int     `json:"phase"`
	Equipment   string  `json:"equipment"`
	TopParts    string  `json:"top_parts"`
	RepeatParts int     `json:"repeat_parts"`
	StockCost   float64 `json:"stock_cost"`
	SellValue   float64 `json:"sell_value"`
	GrossMargin float64 `json:"gross_margin"`
	BinROI      float64 `json:"bin_roi"`
	PeakSeason  string  `json:"peak_season"`
	RevPriorYr  float64 `json:"rev_prior_year"`
	Trend       string  `json:"trend"`
}
