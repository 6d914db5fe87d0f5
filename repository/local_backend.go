package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sequipment/outreach-hub/models"
	"go.uber.org/zap"
)

// LocalBackend persists the call log to a JSON file next to the service. It
// is the fallback store when the shared workbook is unreachable, so every
// operation degrades softly: missing or corrupt files read as an empty log.
type LocalBackend struct {
	path string

	mu     sync.Mutex
	logger *zap.Logger
}

func NewLocalBackend(path string, logger *zap.Logger) *LocalBackend {
	return &LocalBackend{path: path, logger: logger}
}

func (b *LocalBackend) LoadAll(ctx context.Context) (map[models.LogKey]models.CallEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readLocked()
}

func (b *LocalBackend) readLocked() (map[models.LogKey]models.CallEntry, error) {
	log := make(map[models.LogKey]models.CallEntry)

	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return log, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local call log: %w", err)
	}

	if err := json.Unmarshal(data, &log); err != nil {
		if b.logger != nil {
			b.logger.Warn("local call log is corrupt, starting empty",
				zap.String("path", b.path), zap.Error(err))
		}
		return make(map[models.LogKey]models.CallEntry), nil
	}
	return log, nil
}

func (b *LocalBackend) UpsertRow(ctx context.Context, key models.LogKey, entry models.CallEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	log, err := b.readLocked()
	if err != nil {
		return err
	}
	log[key] = entry
	return b.writeLocked(log)
}

func (b *LocalBackend) DeleteRow(ctx context.Context, key models.LogKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	log, err := b.readLocked()
	if err != nil {
		return err
	}
	if _, ok := log[key]; !ok {
		return nil
	}
	delete(log, key)
	return b.writeLocked(log)
}

// writeLocked writes the whole log through a temp file and rename so a crash
// mid-write never leaves a truncated file behind.
func (b *LocalBackend) writeLocked(log map[models.LogKey]models.CallEntry) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode local call log: %w", err)
	}

	dir := filepath.Dir(b.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create local call log directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage local call log: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write local call log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to flush local call log: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace local call log: %w", err)
	}
	return nil
}
