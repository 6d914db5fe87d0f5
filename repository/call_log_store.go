package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/sequipment/outreach-hub/models"
	"go.uber.org/zap"
)

// Connector is implemented by backends that need an availability check
// before use. The sheet backend implements it; the local fallback does not.
type Connector interface {
	Connect(ctx context.Context) error
}

// CallLogStore is the process-wide call log. It keeps the authoritative copy
// in memory and writes through to the shared workbook when reachable,
// otherwise to the local JSON fallback. Reads never touch a backend.
type CallLogStore struct {
	remote CallLogBackend
	local  CallLogBackend

	mu           sync.RWMutex
	entries      map[models.LogKey]models.CallEntry
	remoteActive bool

	logger *zap.Logger
}

func NewCallLogStore(remote, local CallLogBackend, logger *zap.Logger) *CallLogStore {
	return &CallLogStore{
		remote:  remote,
		local:   local,
		entries: make(map[models.LogKey]models.CallEntry),
		logger:  logger,
	}
}

// Initialize loads the log, preferring the shared workbook and falling back
// to the local file. It never fails: an empty log with the local backend
// active is the worst case, and the service stays usable.
func (s *CallLogStore) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries, err := s.loadRemoteLocked(ctx); err == nil {
		s.entries = entries
		s.setRemoteLocked(true)
		s.logger.Info("call log loaded from shared workbook", zap.Int("entries", len(entries)))
	} else {
		s.logger.Warn("shared workbook unavailable, using local call log", zap.Error(err))
		entries, lerr := s.local.LoadAll(ctx)
		if lerr != nil {
			s.logger.Error("local call log unavailable, starting empty", zap.Error(lerr))
			entries = make(map[models.LogKey]models.CallEntry)
		}
		s.entries = entries
		s.setRemoteLocked(false)
	}
	storeEntries.Set(float64(len(s.entries)))
}

func (s *CallLogStore) loadRemoteLocked(ctx context.Context) (map[models.LogKey]models.CallEntry, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("no shared workbook backend configured")
	}
	if c, ok := s.remote.(Connector); ok {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}
	return s.remote.LoadAll(ctx)
}

func (s *CallLogStore) setRemoteLocked(active bool) {
	s.remoteActive = active
	if active {
		storeRemoteActive.Set(1)
	} else {
		storeRemoteActive.Set(0)
	}
}

// Get returns the entry for the key from memory.
func (s *CallLogStore) Get(key models.LogKey) (models.CallEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// Snapshot returns a copy of the whole log for aggregation. Callers may
// mutate the returned map freely.
func (s *CallLogStore) Snapshot() map[models.LogKey]models.CallEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.LogKey]models.CallEntry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of logged entries.
func (s *CallLogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RemoteActive reports whether writes currently reach the shared workbook.
func (s *CallLogStore) RemoteActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteActive
}

// Upsert stores the entry in memory first, then writes through to the active
// backend. The in-memory update survives a backend failure, which is reported
// wrapped in ErrWriteThrough so callers can warn without losing the edit. A
// failed write never changes the active backend: that decision is made at
// initialization and revisited only by Refresh.
func (s *CallLogStore) Upsert(ctx context.Context, key models.LogKey, entry models.CallEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry
	storeEntries.Set(float64(len(s.entries)))

	err := s.activeBackendLocked().UpsertRow(ctx, key, entry)
	observeStoreOp("upsert", err)
	if err != nil {
		storeWriteThroughFailures.Inc()
		s.logger.Warn("call log write-through failed, entry kept in memory",
			zap.String("log_key", string(key)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrWriteThrough, err)
	}
	return nil
}

// Delete removes the entry in memory and from the active backend. Deleting a
// key that was never logged is success. Like Upsert, a failed write-through
// leaves the active backend unchanged.
func (s *CallLogStore) Delete(ctx context.Context, key models.LogKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	storeEntries.Set(float64(len(s.entries)))

	err := s.activeBackendLocked().DeleteRow(ctx, key)
	observeStoreOp("delete", err)
	if err != nil {
		storeWriteThroughFailures.Inc()
		s.logger.Warn("call log write-through failed, entry kept in memory",
			zap.String("log_key", string(key)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrWriteThrough, err)
	}
	return nil
}

func (s *CallLogStore) activeBackendLocked() CallLogBackend {
	if s.remoteActive {
		return s.remote
	}
	return s.local
}

// Refresh re-syncs the in-memory log from the shared workbook, reconnecting
// if the store had fallen back to the local file. It reports whether the
// workbook is active after the attempt.
func (s *CallLogStore) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadRemoteLocked(ctx)
	observeStoreOp("refresh", err)
	if err != nil {
		s.setRemoteLocked(false)
		return false, fmt.Errorf("failed to refresh call log from shared workbook: %w", err)
	}
	s.entries = entries
	s.setRemoteLocked(true)
	storeEntries.Set(float64(len(entries)))
	s.logger.Info("call log refreshed from shared workbook", zap.Int("entries", len(entries)))
	return true, nil
}
