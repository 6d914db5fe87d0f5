package utils

// Call list display constants
const (
	// TargetRowLimit caps the rows returned for most campaign call lists
	TargetRowLimit = 100

	// ConquestRowLimit caps each conquest list (warm and cold)
	ConquestRowLimit = 75

	// RecentActivityLimit caps the dashboard recent-activity feed
	RecentActivityLimit = 50

	// LeaderboardLimit caps the dashboard caller leaderboard
	LeaderboardLimit = 20

	// RecentNotesPreviewLen truncates notes in the recent-activity feed
	RecentNotesPreviewLen = 60
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
