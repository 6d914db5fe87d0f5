// Package repository provides the call log backends, the unified store, and
// read-only access to the campaign datasets.
package repository

import (
	"context"
	"errors"

	"github.com/sequipment/outreach-hub/models"
)

// ErrWriteThrough marks a failed write-through to the active backend. The
// in-memory log has already been updated when this is returned; callers
// surface it as a non-fatal warning and never roll back.
var ErrWriteThrough = errors.New("call log write-through failed")

// CallLogBackend is the capability surface a call log backend must provide.
// The store holds exactly one instance, selected at initialization, and never
// branches on backend identity afterwards.
type CallLogBackend interface {
	// LoadAll reads the full persisted mapping.
	LoadAll(ctx context.Context) (map[models.LogKey]models.CallEntry, error)
	// UpsertRow persists a single entry, overwriting any existing row for
	// the key.
	UpsertRow(ctx context.Context, key models.LogKey, entry models.CallEntry) error
	// DeleteRow removes the row for the key. A missing row is success.
	DeleteRow(ctx context.Context, key models.LogKey) error
}

// BranchTargets is the per-branch target split across the campaign datasets.
// The service seasonality dataset is month-scoped and intentionally excluded
// from branch target totals.
type BranchTargets struct {
	Recovery    int
	Conquest    int
	Parts       int
	Consignment int
	Total       int
}

// DatasetRepository provides read-only access to the loaded campaign
// datasets. Missing or unreadable dataset files load as empty collections.
type DatasetRepository interface {
	Recovery() []models.RecoveryRow
	ConquestSN() []models.ConquestSNRow
	ConquestEDA() []models.ConquestEDARow
	Parts() []models.PartsRow
	ServiceForMonth(month int) []models.ServiceRow
	Consignment() []models.ConsignmentRow
	BranchTargets(branch string) BranchTargets
}
