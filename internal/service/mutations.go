package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/model"
)

// MaxTitleLength bounds resume titles.
const MaxTitleLength = 200

// =========================================================================
// MUTATION API
// =========================================================================
//
// Every mutation works on a clone of Current and swaps it in only when the
// change succeeds, so a failed patch never leaves a half-applied resume.
// The new Current replaces its entry in Resumes by id, and is written to
// local storage when editing locally (unless the writes are deferred to an
// editor session). With no Current every mutation is a silent no-op.

// AddSectionItem appends item to section under a new local id and returns
// that id. section may be singular ("hobby") or plural ("hobbies").
func (s *ResumeService) AddSectionItem(ctx context.Context, section string, item any) (string, error) {
	sec, err := resolveSection(section)
	if err != nil {
		return "", err
	}
	var id string
	err = s.mutate(ctx, "add section item", func(r *model.Resume) (bool, error) {
		var err error
		if id, err = r.AddItem(sec, item); err != nil {
			return false, apperror.ValidationFailed("item", err.Error())
		}
		return true, nil
	})
	return id, err
}

// UpdateSectionItem shallow-merges patch into the item with itemID. Nothing
// happens when no item matches.
func (s *ResumeService) UpdateSectionItem(ctx context.Context, section, itemID string, patch any) error {
	sec, err := resolveSection(section)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "update section item", func(r *model.Resume) (bool, error) {
		ok, err := r.UpdateItem(sec, itemID, patch)
		if err != nil {
			return false, apperror.ValidationFailed("patch", err.Error())
		}
		return ok, nil
	})
}

// RemoveSectionItem drops the item with itemID.
func (s *ResumeService) RemoveSectionItem(ctx context.Context, section, itemID string) error {
	sec, err := resolveSection(section)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "remove section item", func(r *model.Resume) (bool, error) {
		return r.RemoveItem(sec, itemID)
	})
}

// ReorderSectionItems replaces section with items in the given order. The
// new list must hold exactly the same item ids as the old one; a reorder
// cannot add, drop or duplicate items.
func (s *ResumeService) ReorderSectionItems(ctx context.Context, section string, items any) error {
	sec, err := resolveSection(section)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "reorder section items", func(r *model.Resume) (bool, error) {
		before, err := r.ItemIDs(sec)
		if err != nil {
			return false, err
		}
		if err := r.ReplaceItems(sec, items); err != nil {
			return false, apperror.ValidationFailed("items", err.Error())
		}
		after, err := r.ItemIDs(sec)
		if err != nil {
			return false, err
		}
		if !sameIDs(before, after) {
			return false, apperror.ValidationFailed("items",
				fmt.Sprintf("reordered %s must contain the same items", sec))
		}
		return true, nil
	})
}

// SetItemCurrent flips the "current" flag of a dated entry. The end date is
// cleared only when the entry goes from not current to current; setting a
// flag that is already on leaves end_date alone.
func (s *ResumeService) SetItemCurrent(ctx context.Context, section, itemID string, current bool) error {
	sec, err := resolveSection(section)
	if err != nil {
		return err
	}
	if !sec.Dated() {
		return apperror.ValidationFailed("section", fmt.Sprintf("%s entries have no date range", sec))
	}
	return s.mutate(ctx, "set item current", func(r *model.Resume) (bool, error) {
		was, found := r.ItemCurrent(sec, itemID)
		if !found {
			return false, nil
		}
		patch := map[string]any{"current": current}
		if current && !was {
			patch["end_date"] = ""
		}
		return r.UpdateItem(sec, itemID, patch)
	})
}

// UpdatePersonalInfo shallow-merges patch into the personal info.
func (s *ResumeService) UpdatePersonalInfo(ctx context.Context, patch any) error {
	return s.mutate(ctx, "update personal info", func(r *model.Resume) (bool, error) {
		if err := r.PatchPersonalInfo(patch); err != nil {
			return false, apperror.ValidationFailed("personal_info", err.Error())
		}
		return true, nil
	})
}

// UpdateResumeTitle sets the title.
func (s *ResumeService) UpdateResumeTitle(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	return s.mutate(ctx, "update title", func(r *model.Resume) (bool, error) {
		r.Title = title
		return true, nil
	})
}

// UpdateCustomization shallow-merges patch into the customization. A
// "template" key is mirrored to the top-level template.
func (s *ResumeService) UpdateCustomization(ctx context.Context, patch any) error {
	return s.mutate(ctx, "update customization", func(r *model.Resume) (bool, error) {
		if err := r.PatchCustomization(patch); err != nil {
			return false, apperror.ValidationFailed("customization", err.Error())
		}
		return true, nil
	})
}

// mutate applies fn to a clone of Current. fn reports whether it changed
// anything; an unchanged or failed clone is discarded.
func (s *ResumeService) mutate(ctx context.Context, op string, fn func(r *model.Resume) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Current == nil {
		return nil
	}

	next := s.state.Current.Clone()
	changed, err := fn(next)
	if err != nil {
		s.logger.Warn("mutation rejected", slog.String("op", op), slog.String("error", err.Error()))
		return err
	}
	if !changed {
		return nil
	}

	s.setCurrentLocked(next)
	s.replaceLocked(next)

	if s.state.EditingLocally && !s.deferLocalWrites {
		if err := s.drafts.SaveResumeToLocal(ctx, next); err != nil {
			return s.failLocked(err, "failed to save local draft", slog.String("op", op))
		}
	}
	return nil
}

func resolveSection(name string) (model.Section, error) {
	sec, ok := model.ResolveSection(name)
	if !ok {
		return "", apperror.ValidationFailed("section", fmt.Sprintf("unknown section %q", name))
	}
	return sec, nil
}

// sameIDs compares two id lists as multisets.
func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
