// Package draft mirrors the in-progress resume to client storage.
//
// Two keys are used:
//
//	resumeData           the serialized draft
//	resumeSavedToServer  absent, or the server id the draft was last saved as
//
// The store is a dumb blob store. It does not validate what it writes, and a
// blob it cannot decode reads as "no draft" instead of an error, so a
// corrupted entry never blocks the editor.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zadnan82/newcv-sub002/internal/model"
	"github.com/zadnan82/newcv-sub002/internal/repository"
)

const (
	DataKey  = "resumeData"
	SavedKey = "resumeSavedToServer"
)

// Store reads and writes the draft through a repository.KV.
type Store struct {
	kv     repository.KV
	logger *slog.Logger
}

func NewStore(kv repository.KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// SaveResumeToLocal serializes r under DataKey.
func (s *Store) SaveResumeToLocal(ctx context.Context, r *model.Resume) error {
	buf, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("draft: encoding resume: %w", err)
	}
	if err := s.kv.Set(ctx, DataKey, string(buf)); err != nil {
		return fmt.Errorf("draft: saving resume: %w", err)
	}
	return nil
}

// GetResumeFromLocal returns the stored draft, or nil when there is none or
// it does not decode. Only storage failures are returned as errors.
func (s *Store) GetResumeFromLocal(ctx context.Context) (*model.Resume, error) {
	raw, ok, err := s.kv.Get(ctx, DataKey)
	if err != nil {
		return nil, fmt.Errorf("draft: reading resume: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" || raw == "null" {
		return nil, nil
	}

	var r model.Resume
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		s.logger.Warn("discarding unreadable local draft", slog.String("error", err.Error()))
		return nil, nil
	}
	r.EnsureCollections()
	return &r, nil
}

// ClearResumeData removes the draft blob.
func (s *Store) ClearResumeData(ctx context.Context) error {
	if err := s.kv.Delete(ctx, DataKey); err != nil {
		return fmt.Errorf("draft: clearing resume: %w", err)
	}
	return nil
}

// MarkResumeSavedToServer records that the draft now lives on the server as id.
func (s *Store) MarkResumeSavedToServer(ctx context.Context, id string) error {
	if err := s.kv.Set(ctx, SavedKey, id); err != nil {
		return fmt.Errorf("draft: marking resume %s saved: %w", id, err)
	}
	return nil
}

// ClearResumeSavedStatus removes the saved-to-server marker.
func (s *Store) ClearResumeSavedStatus(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SavedKey); err != nil {
		return fmt.Errorf("draft: clearing saved status: %w", err)
	}
	return nil
}

// SavedServerID returns the marker value. ok is false when no save has been
// recorded since the last clear.
func (s *Store) SavedServerID(ctx context.Context) (id string, ok bool, err error) {
	id, ok, err = s.kv.Get(ctx, SavedKey)
	if err != nil {
		return "", false, fmt.Errorf("draft: reading saved status: %w", err)
	}
	if id == "" {
		return "", false, nil
	}
	return id, ok, nil
}
