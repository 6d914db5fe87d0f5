// Package models defines the domain types shared across the outreach hub.
package models

import (
	"fmt"
	"strings"
)

// DateUpdatedLayout is the timestamp format persisted in call log entries.
const DateUpdatedLayout = "2006-01-02 15:04"

// CallEntry is the persisted record for one log key. Field names match the
// shared call log columns and the local JSON store one-to-one.
type CallEntry struct {
	CustomerName string `json:"customer_name"`
	BranchName   string `json:"branch_name"`
	Called       bool   `json:"called"`
	Followup     bool   `json:"followup"`
	Notes        string `json:"notes"`
	User         string `json:"user"`
	DateUpdated  string `json:"date_updated"`
}

// Active reports whether the entry carries any logged state. An entry exists
// in the store iff at least one of called, followup or non-empty notes is
// set; clearing all three deletes the entry instead of persisting it.
func (e CallEntry) Active() bool {
	return e.Called || e.Followup || strings.TrimSpace(e.Notes) != ""
}

// LogKey identifies one (campaign, customer) pair as "<prefix>_<customerID>".
// Keys are opaque after construction; only campaign derivation splits the
// prefix back out. The split-on-first-underscore derivation cannot tell a
// customer identifier containing underscores apart from the prefix, which is
// a known limitation of the key scheme.
type LogKey string

// NewLogKey builds the composite key for a campaign and customer identifier.
func NewLogKey(code CampaignCode, customerID string) LogKey {
	return LogKey(string(code) + "_" + customerID)
}

// ParseLogKey validates that a raw key starts with a known campaign code
// followed by a non-empty customer identifier.
func ParseLogKey(raw string) (LogKey, error) {
	for _, code := range CampaignCodes {
		prefix := string(code) + "_"
		if strings.HasPrefix(raw, prefix) && len(raw) > len(prefix) {
			return LogKey(raw), nil
		}
	}
	return "", fmt.Errorf("invalid log key %q: unknown campaign prefix", raw)
}

// CampaignPrefix returns the part of the key before the first underscore.
// Both conquest_sn and conquest_eda keys yield "conquest" here.
func (k LogKey) CampaignPrefix() string {
	if i := strings.Index(string(k), "_"); i >= 0 {
		return string(k)[:i]
	}
	return string(k)
}

// CustomerID returns the part of the key after its campaign code, or the part
// after the first underscore when the prefix is not a known code.
func (k LogKey) CustomerID() string {
	for _, code := range CampaignCodes {
		prefix := string(code) + "_"
		if strings.HasPrefix(string(k), prefix) {
			return string(k)[len(prefix):]
		}
	}
	if i := strings.Index(string(k), "_"); i >= 0 {
		return string(k)[i+1:]
	}
	return ""
}

// CampaignLabel returns the display label of the campaign the key belongs to.
// The two conquest datasets collapse into the single logical "Conquest"
// campaign.
func (k LogKey) CampaignLabel() string {
	if strings.Contains(string(k), CampaignConquestPrefix) {
		return "Conquest"
	}
	return titleCase(k.CampaignPrefix())
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
