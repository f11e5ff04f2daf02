// Package session implements the report-editing session: the carry
// forward engine that decides what populates the form when the selected
// date changes, the debounced autosave coordinator, and the assembler
// that produces upload-ready payloads. All reconciliation between the
// in-memory draft, the device-local draft store and the remote report
// store lives here.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gonyrida/sitedaily/internal/draftstore"
	"github.com/gonyrida/sitedaily/internal/logging"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/providers"
)

// Default timer settings; both can be overridden through Config.
const (
	DefaultAutoSaveDebounce = 1 * time.Second
	DefaultSnapshotInterval = 30 * time.Second
)

// Config carries the tunable session timings.
type Config struct {
	AutoSaveDebounce time.Duration
	SnapshotInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.AutoSaveDebounce <= 0 {
		c.AutoSaveDebounce = DefaultAutoSaveDebounce
	}
	if c.SnapshotInterval <= 0 {
		c.SnapshotInterval = DefaultSnapshotInterval
	}
	return c
}

// ReportSession owns one report form's lifecycle: the current in-memory
// draft, the selected-date state machine, and the timers that used to
// live as free-floating globals in earlier incarnations of this code.
// It is safe for use from UI callbacks and its own timer goroutines.
type ReportSession struct {
	store    providers.ReportStore
	exporter providers.DocumentExporter
	drafts   draftstore.Store
	cfg      Config

	mu       sync.Mutex
	draft    *dtos.ReportDraft
	selected bool // false until the first date is chosen

	// loadGen discards resolutions that were superseded by a newer
	// date selection while their network call was still in flight.
	loadGen uint64

	// Autosave coordinator state, see autosave.go.
	autosaveTimer *time.Timer
	pendingPatch  *dtos.ReportPatch
	saveGen       uint64
	saving        bool
	lastSavedAt   time.Time
}

// NewReportSession creates a session over the given collaborators. The
// session starts in the NoPriorSelection state; call SelectDate to
// populate it.
func NewReportSession(store providers.ReportStore, exporter providers.DocumentExporter, drafts draftstore.Store, cfg Config) *ReportSession {
	return &ReportSession{
		store:    store,
		exporter: exporter,
		drafts:   drafts,
		cfg:      cfg.withDefaults(),
	}
}

// Current returns a deep copy of the in-memory draft, or nil before the
// first selection.
func (s *ReportSession) Current() *dtos.ReportDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDraft(s.draft)
}

// Update applies a mutation to the in-memory draft under the session
// lock. UI edit handlers funnel through here.
func (s *ReportSession) Update(mutate func(*dtos.ReportDraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	mutate(s.draft)
}

// SelectDate drives the date-selection state machine.
//
// On the first selection the resolution chain is remote-by-date, then
// local draft, then blank; no carry-forward happens because a first-ever
// view of a date has no "yesterday" in the session. On subsequent
// selections the current draft is first persisted locally under its own
// date (edits are never lost by navigating away), then the target date
// resolves through remote, local, carried-forward previous-day local
// draft, and finally blank. Remote failures other than 404 degrade
// silently to the next step.
func (s *ReportSession) SelectDate(ctx context.Context, date string) (*dtos.ReportDraft, error) {
	if _, err := dtos.ParseReportDate(date); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.selected && s.draft != nil && s.draft.ReportDate == date {
		cur := cloneDraft(s.draft)
		s.mu.Unlock()
		return cur, nil
	}
	// Step (a): persist the outgoing date's edits before anything else.
	if s.selected && s.draft != nil {
		outgoing := cloneDraft(s.draft)
		if err := s.drafts.Put(outgoing.ReportDate, outgoing); err != nil {
			logging.Warn("failed to snapshot draft before navigation",
				"report_date", outgoing.ReportDate, "error", err.Error())
		}
	}
	allowCarry := s.selected
	s.loadGen++
	gen := s.loadGen
	s.mu.Unlock()

	// Step (b): resolve the target date, network calls outside the lock.
	resolved := s.resolveDate(ctx, date, allowCarry)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		// A newer selection superseded this one; drop the stale result.
		return cloneDraft(s.draft), nil
	}
	s.draft = resolved
	s.selected = true
	s.cancelPendingAutoSaveLocked()
	return cloneDraft(s.draft), nil
}

// OpenReport loads a report by its server-assigned id and makes its date
// the selected date. Unlike date navigation there is no fallback chain:
// opening an explicit id that cannot be loaded is a surfaced failure.
func (s *ReportSession) OpenReport(ctx context.Context, id string) (*dtos.ReportDraft, error) {
	s.mu.Lock()
	if s.selected && s.draft != nil {
		outgoing := cloneDraft(s.draft)
		if err := s.drafts.Put(outgoing.ReportDate, outgoing); err != nil {
			logging.Warn("failed to snapshot draft before navigation",
				"report_date", outgoing.ReportDate, "error", err.Error())
		}
	}
	s.loadGen++
	gen := s.loadGen
	s.mu.Unlock()

	remote, err := s.store.LoadByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		return cloneDraft(s.draft), nil
	}
	s.draft = remote
	s.selected = true
	s.cancelPendingAutoSaveLocked()
	return cloneDraft(s.draft), nil
}

// resolveDate walks the resolution chain for a target date. The order
// is fixed: remote store, local draft, carried-forward previous-day
// local draft, blank. Remote data always wins over local because the
// remote store is the authoritative multi-device source; local and
// derived values exist only to avoid data loss and re-entry.
func (s *ReportSession) resolveDate(ctx context.Context, date string, allowCarry bool) *dtos.ReportDraft {
	remote, err := s.store.LoadByDate(ctx, date)
	if err == nil && remote != nil {
		remote.ReportDate = date
		return remote
	}
	if err != nil && !providers.IsNotFound(err) {
		// Network or server failure: fall back to local data, never
		// block date selection on backend availability.
		msg := "remote load failed, falling back to local draft"
		if providers.IsTimeout(err) {
			msg = "remote load timed out, falling back to local draft"
		}
		logging.Warn(msg, "report_date", date, "error", err.Error())
	}

	local, found, lerr := s.drafts.Get(date)
	if lerr != nil {
		logging.Warn("local draft read failed", "report_date", date, "error", lerr.Error())
	}
	if found {
		local.ReportDate = date
		return local
	}

	if allowCarry {
		if prevDate, perr := dtos.PrevDay(date); perr == nil {
			prior, priorFound, perr2 := s.drafts.Get(prevDate)
			if perr2 != nil {
				logging.Warn("local draft read failed", "report_date", prevDate, "error", perr2.Error())
			}
			if priorFound {
				return DeriveNextDay(prior, date)
			}
		}
	}

	return dtos.NewBlankDraft(date)
}

// SaveLocal writes the current draft to the local draft store. Failures
// are logged and swallowed; local persistence is best effort.
func (s *ReportSession) SaveLocal() {
	s.mu.Lock()
	draft := cloneDraft(s.draft)
	s.mu.Unlock()
	if draft == nil {
		return
	}
	if err := s.drafts.Put(draft.ReportDate, draft); err != nil {
		logging.Warn("local draft save failed",
			"report_date", draft.ReportDate, "error", err.Error())
	}
}

// RunSnapshots persists the full draft to the local store on a fixed
// interval until ctx is cancelled. This is the safety net for users who
// never get far enough to acquire a report id, and it runs regardless
// of whether one is bound.
func (s *ReportSession) RunSnapshots(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SaveLocal()
		case <-ctx.Done():
			return
		}
	}
}

// Clear resets the form to the documented defaults for the currently
// selected date and removes its local draft.
func (s *ReportSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	date := s.draft.ReportDate
	s.draft = dtos.NewBlankDraft(date)
	s.cancelPendingAutoSaveLocked()
	if err := s.drafts.Delete(date); err != nil {
		logging.Warn("failed to clear local draft", "report_date", date, "error", err.Error())
	}
}

// Close tears down session-owned timers.
func (s *ReportSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingAutoSaveLocked()
}

// cloneDraft deep-copies a draft through JSON so callers can never alias
// session-owned state.
func cloneDraft(d *dtos.ReportDraft) *dtos.ReportDraft {
	if d == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	var out dtos.ReportDraft
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return &out
}
