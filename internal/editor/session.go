// Package editor is the editing session UI form components drive.
//
// A Session sits in front of the ResumeService Mutation API. Each change is
// applied to the store immediately and then schedules a debounced autosave,
// so a burst of keystrokes produces one local-storage write. The session
// also trims personal info before it reaches the store.
package editor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/zadnan82/newcv-sub002/internal/autosave"
	"github.com/zadnan82/newcv-sub002/internal/service"
)

// saveTimeout bounds one autosave write; the timer has no caller context.
const saveTimeout = 5 * time.Second

// Session owns the autosave task of one editing session.
type Session struct {
	svc      *service.ResumeService
	autosave *autosave.Debouncer
	logger   *slog.Logger
}

// NewSession starts a session. The service should be built with
// Options.DeferLocalWrites so writes happen only through the autosave.
func NewSession(svc *service.ResumeService, delay time.Duration, logger *slog.Logger) *Session {
	s := &Session{svc: svc, logger: logger}
	s.autosave = autosave.New(delay, s.save)
	return s
}

func (s *Session) save() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.svc.PersistDraft(ctx); err != nil {
		s.logger.Error("autosave failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("draft autosaved")
}

// changed schedules an autosave after a successful change.
func (s *Session) changed(err error) error {
	if err != nil {
		return err
	}
	s.autosave.Trigger()
	return nil
}

func (s *Session) AddItem(ctx context.Context, section string, item any) (string, error) {
	id, err := s.svc.AddSectionItem(ctx, section, item)
	return id, s.changed(err)
}

func (s *Session) UpdateItem(ctx context.Context, section, itemID string, patch any) error {
	return s.changed(s.svc.UpdateSectionItem(ctx, section, itemID, patch))
}

func (s *Session) RemoveItem(ctx context.Context, section, itemID string) error {
	return s.changed(s.svc.RemoveSectionItem(ctx, section, itemID))
}

func (s *Session) ReorderItems(ctx context.Context, section string, items any) error {
	return s.changed(s.svc.ReorderSectionItems(ctx, section, items))
}

func (s *Session) UpdateTitle(ctx context.Context, title string) error {
	return s.changed(s.svc.UpdateResumeTitle(ctx, title))
}

func (s *Session) UpdateCustomization(ctx context.Context, patch any) error {
	return s.changed(s.svc.UpdateCustomization(ctx, patch))
}

// UpdatePersonalInfo trims patch and merges it into the personal info.
func (s *Session) UpdatePersonalInfo(ctx context.Context, patch map[string]string) error {
	return s.changed(s.svc.UpdatePersonalInfo(ctx, NormalizePersonalInfo(patch)))
}

// SetCurrent flips the "current" flag of a dated entry. Turning it on
// clears end_date in the same change.
func (s *Session) SetCurrent(ctx context.Context, section, itemID string, current bool) error {
	return s.changed(s.svc.SetItemCurrent(ctx, section, itemID, current))
}

// Flush writes a pending autosave now.
func (s *Session) Flush() {
	s.autosave.Flush()
}

// Discard drops a pending autosave. Call it before the current resume is
// replaced so the old draft is not written over the new one.
func (s *Session) Discard() {
	s.autosave.Cancel()
}

// Close ends the session. A pending autosave is written first unless
// discard is set; after Close nothing is scheduled.
func (s *Session) Close(discard bool) {
	if !discard {
		s.autosave.Flush()
	}
	s.autosave.Stop()
}

// NormalizePersonalInfo trims every value and drops keys that are not
// personal info fields. Values are never null at this layer.
func NormalizePersonalInfo(patch map[string]string) map[string]string {
	out := make(map[string]string, len(patch))
	for k, v := range patch {
		key := strings.ToLower(strings.TrimSpace(k))
		if !personalInfoKeys[key] {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	return out
}

var personalInfoKeys = map[string]bool{
	"full_name":       true,
	"title":           true,
	"email":           true,
	"mobile":          true,
	"date_of_birth":   true,
	"nationality":     true,
	"address":         true,
	"city":            true,
	"postal_code":     true,
	"driving_license": true,
	"linkedin":        true,
	"website":         true,
	"summary":         true,
}
