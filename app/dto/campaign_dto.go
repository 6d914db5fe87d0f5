package dto

// CampaignCardDTO summarizes one campaign for a branch: how many targets the
// branch has and how many of them are already called.
type CampaignCardDTO struct {
	Campaign string `json:"campaign"`
	Title    string `json:"title"`
	Targets  int    `json:"targets"`
	Called   int    `json:"called"`
}

// CampaignCardsResponse is the per-branch campaign overview.
type CampaignCardsResponse struct {
	Branch       string            `json:"branch"`
	Month        int               `json:"month"`
	MonthName    string            `json:"month_name"`
	TotalTargets int               `json:"total_targets"`
	TotalCalled  int               `json:"total_called"`
	Cards        []CampaignCardDTO `json:"cards"`
}

// TargetListResponse is one campaign's ranked call list for a branch. Rows
// carries the campaign-specific row type.
type TargetListResponse struct {
	Campaign      string `json:"campaign"`
	Branch        string `json:"branch"`
	Month         int    `json:"month,omitempty"`
	TotalTargets  int    `json:"total_targets"`
	CalledCount   int    `json:"called_count"`
	FollowupCount int    `json:"followup_count"`
	Rows          any    `json:"rows"`
}

// TargetEntryDTO is the logged state attached to a target row.
type TargetEntryDTO struct {
	Called   bool   `json:"called"`
	Followup bool   `json:"followup"`
	Notes    string `json:"notes"`
}

// RecoveryTargetDTO is one declining customer on the recovery list.
type RecoveryTargetDTO struct {
	LogKey        string         `json:"log_key"`
	Customer      string         `json:"customer"`
	Branch        string         `json:"branch"`
	Action        string         `json:"action"`
	DeclineAmount float64        `json:"decline_amount"`
	Entry         TargetEntryDTO `json:"entry"`
}

// ConquestSNTargetDTO is one warm conquest prospect.
type ConquestSNTargetDTO struct {
	LogKey            string         `json:"log_key"`
	Company           string         `json:"company"`
	Branch            string         `json:"branch"`
	HeatScore         int            `json:"heat_score"`
	SECFleet          int            `json:"sec_fleet"`
	HistoricalRevenue float64        `json:"historical_revenue"`
	Contact           string         `json:"contact"`
	Phone             string         `json:"phone"`
	City              string         `json:"city"`
	State             string         `json:"state"`
	Entry             TargetEntryDTO `json:"entry"`
}

// ConquestEDATargetDTO is one cold conquest prospect.
type ConquestEDATargetDTO struct {
	LogKey   string         `json:"log_key"`
	Company  string         `json:"company"`
	Branch   string         `json:"branch"`
	Score    int            `json:"score"`
	SECUnits int            `json:"sec_units"`
	SECValue float64        `json:"sec_value"`
	Contact  string         `json:"contact"`
	Phone    string         `json:"phone"`
	City     string         `json:"city"`
	State    string         `json:"state"`
	Entry    TargetEntryDTO `json:"entry"`
}

// PartsTargetDTO is one parts campaign customer.
type PartsTargetDTO struct {
	LogKey       string         `json:"log_key"`
	Customer     string         `json:"customer"`
	CustomerName string         `json:"customer_name"`
	Branch       string         `json:"branch"`
	Equipment    string         `json:"equipment"`
	Categories   string         `json:"categories"`
	Entry        TargetEntryDTO `json:"entry"`
}

// ServiceTargetDTO is one service seasonality target for the chosen month.
type ServiceTargetDTO struct {
	LogKey       string         `json:"log_key"`
	CustAcct     string         `json:"cust_acct"`
	CustName     string         `json:"cust_name"`
	Branch       string         `json:"branch"`
	Tier         string         `json:"tier"`
	MonthRevenue float64        `json:"month_revenue"`
	Equipment    string         `json:"equipment"`
	History      string         `json:"history"`
	GLDesc       string         `json:"gl_desc"`
	YearPattern  string         `json:"year_pattern"`
	Entry        TargetEntryDTO `json:"entry"`
}

// ConsignmentTargetDTO is one consignment bin candidate.
type ConsignmentTargetDTO struct {
	LogKey      string         `json:"log_key"`
	Account     string         `json:"account"`
	Customer    string         `json:"customer"`
	Branch      string         `json:"branch"`
	Readiness   int            `json:"readiness"`
	Phase       int            `json:"phase"`
	Equipment   string         `json:"equipment"`
	TopParts    string         `json:"top_parts"`
	RepeatParts int            `json:"repeat_parts"`
	StockCost   float64        `json:"stock_cost"`
	SellValue   float64        `json:"sell_value"`
	GrossMargin float64        `json:"gross_margin"`
	BinROI      float64        `json:"bin_roi"`
	PeakSeason  string         `json:"peak_season"`
	RevPriorYr  float64        `json:"rev_prior_yr"`
	Trend       string         `json:"trend"`
	Entry       TargetEntryDTO `json:"entry"`
}
