// Package service holds the resume draft store: the Draft State Holder, the
// CRUD orchestration over the backend and the Mutation API editors call.
//
// THE LAYERS:
//
//	Handler / CLI      parses input, renders State
//	ResumeService      owns State, decides local vs server, keeps storage in step
//	Backend / Drafts   REST client and client storage, both injected
//
// ONE STORE PER SESSION:
// ResumeService is constructed once by main and passed to every consumer.
// There is no package-level instance. All reads and writes of State go
// through its mutex, so the local API, the autosave timer and the loading
// ceiling can touch it from different goroutines.
//
// NETWORK OUTSIDE THE LOCK:
// Backend calls run without holding the mutex. An edit made while a save is
// in flight is therefore possible; when the save returns, the server's copy
// replaces Current (last writer wins). Revision counts local edits so that
// case is at least detected and logged.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/model"
)

// DefaultLoadingCeiling force-clears State.Loading for requests that hang.
const DefaultLoadingCeiling = 8 * time.Second

// Backend is the remote half of the sync adapter. *remote.Client implements it.
//
// A nil resume with a nil error is a successful empty (204) response.
type Backend interface {
	List(ctx context.Context) ([]*model.Resume, error)
	Get(ctx context.Context, id int64) (*model.Resume, error)
	Create(ctx context.Context, r, fallback *model.Resume) (*model.Resume, error)
	Update(ctx context.Context, id int64, r, fallback *model.Resume) (*model.Resume, error)
	Delete(ctx context.Context, id int64) error
	PutPhoto(ctx context.Context, id int64, link string) error
	DeletePhoto(ctx context.Context, id int64) error
}

// Drafts is the local persistence adapter. *draft.Store implements it.
type Drafts interface {
	SaveResumeToLocal(ctx context.Context, r *model.Resume) error
	GetResumeFromLocal(ctx context.Context) (*model.Resume, error)
	ClearResumeData(ctx context.Context) error
	MarkResumeSavedToServer(ctx context.Context, id string) error
	ClearResumeSavedStatus(ctx context.Context) error
	SavedServerID(ctx context.Context) (string, bool, error)
}

// State is the observable state of the store.
type State struct {
	Current        *model.Resume   `json:"current"`
	Resumes        []*model.Resume `json:"resumes"`
	Loading        bool            `json:"loading"`
	Error          string          `json:"error,omitempty"`
	EditingLocally bool            `json:"is_editing_locally"`
	// Revision increases on every change to Current.
	Revision uint64 `json:"revision"`
}

func (s State) clone() State {
	c := s
	c.Current = s.Current.Clone()
	c.Resumes = make([]*model.Resume, len(s.Resumes))
	for i, r := range s.Resumes {
		c.Resumes[i] = r.Clone()
	}
	return c
}

// Options tunes a ResumeService. The zero value is usable.
type Options struct {
	// LoadingCeiling bounds how long Loading stays true. Zero means
	// DefaultLoadingCeiling.
	LoadingCeiling time.Duration
	// DeferLocalWrites stops Mutation API calls from writing the draft to
	// local storage themselves. Set it when an editor session debounces the
	// writes through PersistDraft.
	DeferLocalWrites bool
}

// ResumeService is the resume draft store.
type ResumeService struct {
	backend Backend
	drafts  Drafts
	logger  *slog.Logger

	loadingCeiling   time.Duration
	deferLocalWrites bool

	mu           sync.Mutex
	state        State
	loadingGen   uint64
	loadingTimer *time.Timer
}

// NewResumeService creates an empty store. Call Rehydrate or StartNewResume
// to give it a current resume.
func NewResumeService(backend Backend, drafts Drafts, logger *slog.Logger, opts Options) *ResumeService {
	ceiling := opts.LoadingCeiling
	if ceiling <= 0 {
		ceiling = DefaultLoadingCeiling
	}
	return &ResumeService{
		backend:          backend,
		drafts:           drafts,
		logger:           logger,
		loadingCeiling:   ceiling,
		deferLocalWrites: opts.DeferLocalWrites,
		state:            State{Resumes: []*model.Resume{}},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *ResumeService) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// =========================================================================
// DRAFT STATE HOLDER
// =========================================================================

// FetchResumes loads the user's resumes and selects the first one. On
// failure State.Error is set and the rest of State is left as it was.
func (s *ResumeService) FetchResumes(ctx context.Context) ([]*model.Resume, error) {
	gen := s.beginLoading()

	resumes, err := s.backend.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLoadingLocked(gen)
	if err != nil {
		return nil, s.failLocked(err, "failed to fetch resumes")
	}

	if resumes == nil {
		resumes = []*model.Resume{}
	}
	s.state.Resumes = resumes
	if len(resumes) > 0 {
		s.setCurrentLocked(resumes[0].Clone())
		s.state.EditingLocally = false
	} else {
		s.setCurrentLocked(nil)
	}
	return cloneAll(resumes), nil
}

// FetchResume loads one server resume and makes it current. The sentinel id
// and anything that is not a positive integer are rejected before any
// request is made.
func (s *ResumeService) FetchResume(ctx context.Context, id string) (*model.Resume, error) {
	serverID, ok := model.ParseServerID(id)
	if !ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		return nil, s.failLocked(apperror.InvalidID(id), "refusing to fetch resume", slog.String("id", id))
	}

	gen := s.beginLoading()

	r, err := s.backend.Get(ctx, serverID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLoadingLocked(gen)
	if err == nil && r == nil {
		err = apperror.NotFound("resume", id)
	}
	if err != nil {
		return nil, s.failLocked(err, "failed to fetch resume", slog.String("id", id))
	}

	s.upsertLocked(r)
	s.setCurrentLocked(r.Clone())
	s.state.EditingLocally = false
	return r.Clone(), nil
}

// SetCurrentResume replaces Current. A resume without a server identity
// switches the store to local editing and is written to local storage; one
// with no id at all is given a local id first.
func (s *ResumeService) SetCurrentResume(ctx context.Context, r *model.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r == nil {
		s.setCurrentLocked(nil)
		return nil
	}

	r = r.Clone()
	r.EnsureCollections()
	if r.ID == "" {
		r.ID = model.NewLocalID()
	}
	s.setCurrentLocked(r)

	if !model.IsLocalID(r.ID) {
		return nil
	}
	s.state.EditingLocally = true
	if err := s.drafts.SaveResumeToLocal(ctx, r); err != nil {
		return s.failLocked(err, "failed to save local draft", slog.String("id", r.ID))
	}
	return nil
}

// StartNewResume begins a blank local draft, discarding any stale draft and
// saved-to-server marker.
func (s *ResumeService) StartNewResume(ctx context.Context) (*model.Resume, error) {
	r := model.Blank()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.setCurrentLocked(r)
	s.state.EditingLocally = true
	s.state.Error = ""

	if err := s.drafts.ClearResumeData(ctx); err != nil {
		return nil, s.failLocked(err, "failed to clear local draft")
	}
	if err := s.drafts.ClearResumeSavedStatus(ctx); err != nil {
		return nil, s.failLocked(err, "failed to clear saved status")
	}
	if err := s.drafts.SaveResumeToLocal(ctx, r); err != nil {
		return nil, s.failLocked(err, "failed to save local draft", slog.String("id", r.ID))
	}

	s.logger.Info("new local draft started", slog.String("id", r.ID))
	return r.Clone(), nil
}

// Rehydrate restores a session: the resume last saved to the server when the
// marker is set, else the local draft, else a blank draft.
func (s *ResumeService) Rehydrate(ctx context.Context) (*model.Resume, error) {
	savedID, ok, err := s.drafts.SavedServerID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading saved status: %w", err)
	}
	if ok {
		return s.FetchResume(ctx, savedID)
	}

	local, err := s.drafts.GetResumeFromLocal(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading local draft: %w", err)
	}
	if local == nil {
		return s.StartNewResume(ctx)
	}

	if local.ID == "" {
		local.ID = model.NewLocalID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCurrentLocked(local)
	s.state.EditingLocally = true
	s.logger.Info("local draft restored", slog.String("id", local.ID))
	return local.Clone(), nil
}

// =========================================================================
// CRUD
// =========================================================================

// CreateResume POSTs r, or Current when r is nil. On success the local draft
// is dropped, the new server id is recorded as saved, and the server's copy
// becomes Current in server mode. A 204 reply returns (nil, nil) and leaves
// State untouched.
func (s *ResumeService) CreateResume(ctx context.Context, r *model.Resume) (*model.Resume, error) {
	r, fallback, rev, err := s.prepareSave(r)
	if err != nil {
		return nil, err
	}

	gen := s.beginLoading()
	created, err := s.backend.Create(ctx, r, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLoadingLocked(gen)
	if err != nil {
		return nil, s.failLocked(err, "failed to create resume")
	}
	if created == nil {
		return nil, nil
	}

	s.applySavedLocked(ctx, r.ID, created, rev)
	s.logger.Info("resume created", slog.String("id", created.ID), slog.String("draft_id", r.ID))
	return created.Clone(), nil
}

// UpdateResume saves r, or Current when r is nil, as resume id.
//
// While editing locally an id with no numeric form never reaches the
// network: r becomes Current and is written to local storage only.
func (s *ResumeService) UpdateResume(ctx context.Context, id string, r *model.Resume) (*model.Resume, error) {
	r, fallback, rev, err := s.prepareSave(r)
	if err != nil {
		return nil, err
	}

	serverID, numeric := model.ParseServerID(id)
	if !numeric {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.state.EditingLocally {
			return nil, s.failLocked(apperror.InvalidID(id), "refusing to update resume", slog.String("id", id))
		}
		return s.saveLocallyLocked(ctx, r)
	}

	gen := s.beginLoading()
	updated, err := s.backend.Update(ctx, serverID, r, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLoadingLocked(gen)
	if err != nil {
		return nil, s.failLocked(err, "failed to update resume", slog.String("id", id))
	}
	if updated == nil {
		return nil, nil
	}

	s.applySavedLocked(ctx, r.ID, updated, rev)
	s.logger.Info("resume updated", slog.String("id", updated.ID))
	return updated.Clone(), nil
}

// DeleteResume removes a resume. Server ids are deleted remotely first; a
// failed DELETE leaves State alone. Then the resume is dropped from memory
// and the local draft and marker are cleared. Ids that are neither local nor
// a server id are rejected.
func (s *ResumeService) DeleteResume(ctx context.Context, id string) error {
	serverID, ok := model.ParseServerID(id)
	if !ok && !model.IsLocalID(id) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.failLocked(apperror.InvalidID(id), "refusing to delete resume", slog.String("id", id))
	}
	if ok {
		gen := s.beginLoading()
		err := s.backend.Delete(ctx, serverID)

		s.mu.Lock()
		s.endLoadingLocked(gen)
		if err != nil {
			err = s.failLocked(err, "failed to delete resume", slog.String("id", id))
			s.mu.Unlock()
			return err
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Resumes = slices.DeleteFunc(s.state.Resumes, func(r *model.Resume) bool { return r.ID == id })
	if s.state.Current != nil && s.state.Current.ID == id {
		s.setCurrentLocked(nil)
		s.state.EditingLocally = false
	}
	if err := s.drafts.ClearResumeData(ctx); err != nil {
		return s.failLocked(err, "failed to clear local draft")
	}
	if err := s.drafts.ClearResumeSavedStatus(ctx); err != nil {
		return s.failLocked(err, "failed to clear saved status")
	}
	s.logger.Info("resume deleted", slog.String("id", id))
	return nil
}

// =========================================================================
// PHOTO
// =========================================================================

// UpdatePhoto sets the photo link of resumeID, or of Current when resumeID is
// empty. Only server-backed resumes are sent to the backend.
func (s *ResumeService) UpdatePhoto(ctx context.Context, link, resumeID string) error {
	return s.setPhoto(ctx, resumeID, model.NewPhotoValue(link), func(id int64) error {
		return s.backend.PutPhoto(ctx, id, link)
	})
}

// DeletePhoto clears the photo of resumeID (or Current). The in-memory link
// is reset to null.
func (s *ResumeService) DeletePhoto(ctx context.Context, resumeID string) error {
	return s.setPhoto(ctx, resumeID, model.PhotoValue{Shape: model.PhotoShapeObject}, func(id int64) error {
		return s.backend.DeletePhoto(ctx, id)
	})
}

func (s *ResumeService) setPhoto(ctx context.Context, resumeID string, photo model.PhotoValue, call func(int64) error) error {
	s.mu.Lock()
	if resumeID == "" && s.state.Current != nil {
		resumeID = s.state.Current.ID
	}
	if resumeID == "" {
		err := s.failLocked(apperror.ValidationFailed("resume_id", "no resume selected"), "cannot change photo")
		s.mu.Unlock()
		return err
	}
	serverID, ok := model.ParseServerID(resumeID)
	if !ok && !model.IsLocalID(resumeID) {
		err := s.failLocked(apperror.InvalidID(resumeID), "cannot change photo")
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if ok {
		gen := s.beginLoading()
		err := call(serverID)

		s.mu.Lock()
		s.endLoadingLocked(gen)
		if err != nil {
			err = s.failLocked(err, "failed to change photo", slog.String("id", resumeID))
			s.mu.Unlock()
			return err
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.state.Resumes {
		if r.ID == resumeID {
			next := r.Clone()
			next.Photos = photo
			next.Photo = nil
			s.state.Resumes[i] = next
		}
	}
	if s.state.Current == nil || s.state.Current.ID != resumeID {
		return nil
	}
	next := s.state.Current.Clone()
	next.Photos = photo
	next.Photo = nil
	s.setCurrentLocked(next)
	if s.state.EditingLocally {
		if err := s.drafts.SaveResumeToLocal(ctx, next); err != nil {
			return s.failLocked(err, "failed to save local draft", slog.String("id", next.ID))
		}
	}
	return nil
}

// =========================================================================
// PERSISTENCE
// =========================================================================

// PersistDraft writes Current to local storage when editing locally. It is
// the autosave hook of editor sessions.
func (s *ResumeService) PersistDraft(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Current == nil || !s.state.EditingLocally {
		return nil
	}
	if err := s.drafts.SaveResumeToLocal(ctx, s.state.Current); err != nil {
		return s.failLocked(err, "failed to autosave draft", slog.String("id", s.state.Current.ID))
	}
	return nil
}

// =========================================================================
// HELPERS
// =========================================================================

// prepareSave picks the resume to send and the photo fallback, and records
// the revision the save starts from.
func (s *ResumeService) prepareSave(r *model.Resume) (payload, fallback *model.Resume, rev uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fallback = s.state.Current.Clone()
	switch {
	case r != nil:
		payload = r.Clone()
	case fallback != nil:
		payload = fallback.Clone()
	default:
		return nil, nil, 0, s.failLocked(apperror.ValidationFailed("resume", "no resume to save"), "nothing to save")
	}
	return payload, fallback, s.state.Revision, nil
}

// saveLocallyLocked is the local-mode short circuit of UpdateResume.
func (s *ResumeService) saveLocallyLocked(ctx context.Context, r *model.Resume) (*model.Resume, error) {
	r.EnsureCollections()
	s.setCurrentLocked(r)
	s.replaceLocked(r)
	if err := s.drafts.SaveResumeToLocal(ctx, r); err != nil {
		return nil, s.failLocked(err, "failed to save local draft", slog.String("id", r.ID))
	}
	s.logger.Debug("resume saved locally", slog.String("id", r.ID))
	return r.Clone(), nil
}

// applySavedLocked is the bookkeeping after a successful create or update.
// Storage failures here are logged only: the server already has the data.
func (s *ResumeService) applySavedLocked(ctx context.Context, sentID string, saved *model.Resume, rev uint64) {
	if s.state.Revision != rev {
		s.logger.Warn("server response replaces edits made during the save",
			slog.String("id", saved.ID),
			slog.Uint64("sent_revision", rev),
			slog.Uint64("current_revision", s.state.Revision),
		)
	}

	if err := s.drafts.ClearResumeData(ctx); err != nil {
		s.logger.Warn("failed to clear local draft after save", slog.String("error", err.Error()))
	}
	if err := s.drafts.MarkResumeSavedToServer(ctx, saved.ID); err != nil {
		s.logger.Warn("failed to mark resume saved", slog.String("error", err.Error()))
	}

	if sentID != saved.ID {
		s.state.Resumes = slices.DeleteFunc(s.state.Resumes, func(r *model.Resume) bool { return r.ID == sentID })
	}
	s.upsertLocked(saved)
	s.setCurrentLocked(saved.Clone())
	s.state.EditingLocally = false
	s.state.Error = ""
}

// upsertLocked replaces the resume with r's id or appends r.
func (s *ResumeService) upsertLocked(r *model.Resume) {
	if !s.replaceLocked(r) {
		s.state.Resumes = append(s.state.Resumes, r.Clone())
	}
}

// replaceLocked replaces the resume with r's id and reports whether one existed.
func (s *ResumeService) replaceLocked(r *model.Resume) bool {
	for i, existing := range s.state.Resumes {
		if existing.ID == r.ID {
			s.state.Resumes[i] = r.Clone()
			return true
		}
	}
	return false
}

func (s *ResumeService) setCurrentLocked(r *model.Resume) {
	s.state.Current = r
	s.state.Revision++
}

// failLocked records err as the user-facing error and returns it.
func (s *ResumeService) failLocked(err error, msg string, attrs ...any) error {
	s.state.Error = apperror.Message(err)
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && !errors.Is(err, apperror.ErrRemote) {
		s.logger.Warn(msg, append(attrs, slog.String("error", err.Error()))...)
	} else {
		s.logger.Error(msg, append(attrs, slog.String("error", err.Error()))...)
	}
	return err
}

// beginLoading raises Loading and arms the ceiling timer. The returned
// generation lets the matching endLoadingLocked ignore newer requests.
func (s *ResumeService) beginLoading() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadingGen++
	gen := s.loadingGen
	s.state.Loading = true
	s.state.Error = ""

	if s.loadingTimer != nil {
		s.loadingTimer.Stop()
	}
	s.loadingTimer = time.AfterFunc(s.loadingCeiling, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen == s.loadingGen && s.state.Loading {
			s.state.Loading = false
			s.logger.Warn("loading indicator cleared by ceiling", slog.Duration("ceiling", s.loadingCeiling))
		}
	})
	return gen
}

func (s *ResumeService) endLoadingLocked(gen uint64) {
	if gen != s.loadingGen {
		return
	}
	s.state.Loading = false
	if s.loadingTimer != nil {
		s.loadingTimer.Stop()
		s.loadingTimer = nil
	}
}

func cloneAll(rs []*model.Resume) []*model.Resume {
	out := make([]*model.Resume, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}
