package dto

// SaveEntryRequest records the outcome of one outreach call. An entry with
// no call, no follow-up, and empty notes clears the logged row instead.
type SaveEntryRequest struct {
	LogKey       string `json:"log_key" validate:"required,max=200"`
	CustomerName string `json:"customer_name" validate:"max=200"`
	BranchName   string `json:"branch_name" validate:"max=100"`
	Called       bool   `json:"called"`
	Followup     bool   `json:"followup"`
	Notes        string `json:"notes" validate:"max=2000"`
	User         string `json:"user" validate:"required,max=100"`
}

// CallEntryDTO is one logged row as returned by the API.
type CallEntryDTO struct {
	LogKey       string `json:"log_key"`
	CustomerName string `json:"customer_name"`
	BranchName   string `json:"branch_name"`
	Called       bool   `json:"called"`
	Followup     bool   `json:"followup"`
	Notes        string `json:"notes"`
	User         string `json:"user"`
	DateUpdated  string `json:"date_updated"`
	Campaign     string `json:"campaign"`
}

// SaveEntryResponse reports what the save did with the entry.
type SaveEntryResponse struct {
	LogKey  string        `json:"log_key"`
	Saved   bool          `json:"saved"`
	Deleted bool          `json:"deleted"`
	Synced  bool          `json:"synced"`
	Entry   *CallEntryDTO `json:"entry,omitempty"`
}

// CallLogStatusDTO describes the store and its active backend.
type CallLogStatusDTO struct {
	Entries      int    `json:"entries"`
	RemoteActive bool   `json:"remote_active"`
	Backend      string `json:"backend"`
}

// RefreshResponse reports the outcome of a re-sync from the shared workbook.
type RefreshResponse struct {
	RemoteActive bool `json:"remote_active"`
	Entries      int  `json:"entries"`
}
