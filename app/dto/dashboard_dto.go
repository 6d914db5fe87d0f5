package dto

// DashboardSummaryDTO is the manager overview of outreach activity.
type DashboardSummaryDTO struct {
	TotalEntries   int `json:"total_entries"`
	TotalCalled    int `json:"total_called"`
	TotalFollowups int `json:"total_followups"`
	TotalNotes     int `json:"total_notes"`
	UniqueUsers    int `json:"unique_users"`
	CallsToday     int `json:"calls_today"`
}

// CampaignProgressDTO is company-wide completion for one campaign. Percent
// is floored, so a campaign reads 99 until the last target is called.
type CampaignProgressDTO struct {
	Campaign  string `json:"campaign"`
	Title     string `json:"title"`
	Targets   int    `json:"targets"`
	Called    int    `json:"called"`
	Remaining int    `json:"remaining"`
	Percent   int    `json:"percent"`
}

// BranchActivityDTO is one branch's row on the activity board. Targets count
// the year-round campaigns only; service rotates monthly and is excluded.
type BranchActivityDTO struct {
	Branch             string `json:"branch"`
	Targets            int    `json:"targets"`
	Calls              int    `json:"calls"`
	Followups          int    `json:"followups"`
	Notes              int    `json:"notes"`
	ActiveUsers        int    `json:"active_users"`
	Percent            int    `json:"percent"`
	RecoveryTargets    int    `json:"recovery_targets"`
	ConquestTargets    int    `json:"conquest_targets"`
	PartsTargets       int    `json:"parts_targets"`
	ConsignmentTargets int    `json:"consignment_targets"`
}

// RecentActivityDTO is one recently called customer.
type RecentActivityDTO struct {
	Customer string `json:"customer"`
	Branch   string `json:"branch"`
	User     string `json:"user"`
	FollowUp string `json:"follow_up"`
	Notes    string `json:"notes"`
	Date     string `json:"date"`
	Campaign string `json:"campaign"`
}

// LeaderboardEntryDTO is one caller on the leaderboard.
type LeaderboardEntryDTO struct {
	User  string `json:"user"`
	Calls int    `json:"calls"`
}

// DashboardResponse bundles the full manager dashboard.
type DashboardResponse struct {
	Summary        DashboardSummaryDTO   `json:"summary"`
	Campaigns      []CampaignProgressDTO `json:"campaigns"`
	Branches       []BranchActivityDTO   `json:"branches"`
	RecentActivity []RecentActivityDTO   `json:"recent_activity"`
	Leaderboard    []LeaderboardEntryDTO `json:"leaderboard"`
}
