package businessflow

import (
	"context"
	"errors"
	"strings"

	"github.com/sequipment/outreach-hub/app/dto"
	"github.com/sequipment/outreach-hub/models"
	"github.com/sequipment/outreach-hub/repository"
	"github.com/sequipment/outreach-hub/utils"
	"go.uber.org/zap"
)

// CallLogFlowImpl implements CallLogFlow on top of the call log store.
type CallLogFlowImpl struct {
	store  *repository.CallLogStore
	logger *zap.Logger
}

func NewCallLogFlow(store *repository.CallLogStore, logger *zap.Logger) CallLogFlow {
	return &CallLogFlowImpl{store: store, logger: logger}
}

// SaveEntry applies one call outcome. An entry with activity is upserted; an
// entry with no call, no follow-up, and no notes clears the logged row, so
// unticking everything is the same as never having logged the customer. A
// write-through failure keeps the edit in memory and reports synced=false
// rather than failing the request.
func (f *CallLogFlowImpl) SaveEntry(ctx context.Context, req *dto.SaveEntryRequest) (*dto.SaveEntryResponse, error) {
	key, err := parseKey(req.LogKey)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.User) == "" {
		return nil, NewBusinessError("USER_NAME_REQUIRED", "user name is required", ErrUserNameRequired)
	}

	entry := models.CallEntry{
		CustomerName: strings.TrimSpace(req.CustomerName),
		BranchName:   strings.TrimSpace(req.BranchName),
		Called:       req.Called,
		Followup:     req.Followup,
		Notes:        strings.TrimSpace(req.Notes),
		User:         strings.TrimSpace(req.User),
		DateUpdated:  utils.UTCNow().Format(models.DateUpdatedLayout),
	}

	if !entry.Active() {
		if err := f.store.Delete(ctx, key); err != nil {
			return f.saveResult(key, nil, false, err)
		}
		return f.saveResult(key, nil, true, nil)
	}

	if err := f.store.Upsert(ctx, key, entry); err != nil {
		return f.saveResult(key, &entry, false, err)
	}
	return f.saveResult(key, &entry, false, nil)
}

func (f *CallLogFlowImpl) saveResult(key models.LogKey, entry *models.CallEntry, deleted bool, err error) (*dto.SaveEntryResponse, error) {
	if err != nil && !errors.Is(err, repository.ErrWriteThrough) {
		return nil, NewBusinessError("CALL_LOG_SAVE_FAILED", "failed to save call log entry", err)
	}
	if err != nil {
		f.logger.Warn("call log entry kept in memory only", zap.String("log_key", string(key)), zap.Error(err))
	}

	resp := &dto.SaveEntryResponse{
		LogKey:  string(key),
		Saved:   entry != nil,
		Deleted: deleted,
		Synced:  err == nil,
	}
	if entry != nil {
		d := ToCallEntryDTO(key, *entry)
		resp.Entry = &d
	}
	return resp, nil
}

func (f *CallLogFlowImpl) GetEntry(ctx context.Context, key string) (*dto.CallEntryDTO, error) {
	k, err := parseKey(key)
	if err != nil {
		return nil, err
	}
	entry, ok := f.store.Get(k)
	if !ok {
		return nil, NewBusinessError("ENTRY_NOT_FOUND", "call log entry not found", ErrEntryNotFound)
	}
	d := ToCallEntryDTO(k, entry)
	return &d, nil
}

// DeleteEntry clears the logged row for the key. Deleting a key that was
// never logged succeeds.
func (f *CallLogFlowImpl) DeleteEntry(ctx context.Context, key string) error {
	k, err := parseKey(key)
	if err != nil {
		return err
	}
	if derr := f.store.Delete(ctx, k); derr != nil {
		if errors.Is(derr, repository.ErrWriteThrough) {
			f.logger.Warn("call log delete kept in memory only", zap.String("log_key", string(k)), zap.Error(derr))
			return nil
		}
		return NewBusinessError("CALL_LOG_DELETE_FAILED", "failed to delete call log entry", derr)
	}
	return nil
}

// Refresh re-syncs the store from the shared workbook.
func (f *CallLogFlowImpl) Refresh(ctx context.Context) (*dto.RefreshResponse, error) {
	active, err := f.store.Refresh(ctx)
	if err != nil {
		return nil, NewBusinessError("REMOTE_UNAVAILABLE", "shared workbook is unavailable", ErrRemoteUnavailable)
	}
	return &dto.RefreshResponse{
		RemoteActive: active,
		Entries:      f.store.Len(),
	}, nil
}

func (f *CallLogFlowImpl) Status(ctx context.Context) *dto.CallLogStatusDTO {
	backend := "local"
	if f.store.RemoteActive() {
		backend = "sheet"
	}
	return &dto.CallLogStatusDTO{
		Entries:      f.store.Len(),
		RemoteActive: f.store.RemoteActive(),
		Backend:      backend,
	}
}

func parseKey(raw string) (models.LogKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", NewBusinessError("LOG_KEY_REQUIRED", "log key is required", ErrLogKeyRequired)
	}
	key, err := models.ParseLogKey(raw)
	if err != nil {
		return "", NewBusinessError("LOG_KEY_INVALID", "log key is invalid", ErrLogKeyInvalid)
	}
	return key, nil
}
