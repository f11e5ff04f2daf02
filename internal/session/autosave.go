package session

import (
	"context"
	"time"

	"github.com/gonyrida/sitedaily/internal/logging"
	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/providers"
)

// TriggerAutoSave schedules a debounced partial update of the remote
// report. It is a no-op while no report id is bound: a brand-new draft
// is only persisted locally until the first explicit save or submit.
// Rapid calls within the debounce window collapse into one network
// call carrying the most recent patch.
func (s *ReportSession) TriggerAutoSave(patch *dtos.ReportPatch) {
	if patch == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil || s.draft.ReportID == "" {
		return
	}

	s.pendingPatch = patch
	if s.autosaveTimer != nil {
		s.autosaveTimer.Stop()
	}
	s.autosaveTimer = time.AfterFunc(s.cfg.AutoSaveDebounce, s.fireAutoSave)
}

// fireAutoSave runs on the debounce timer goroutine. A generation
// counter makes the save-in-progress indicator reflect only the most
// recently initiated attempt; an older request finishing late cannot
// clobber a newer one's status. Failures are logged and swallowed so
// autosave never interrupts typing.
func (s *ReportSession) fireAutoSave() {
	s.mu.Lock()
	if s.draft == nil || s.draft.ReportID == "" || s.pendingPatch == nil {
		s.mu.Unlock()
		return
	}
	id := s.draft.ReportID
	date := s.draft.ReportDate
	patch := s.pendingPatch
	s.pendingPatch = nil
	s.saveGen++
	gen := s.saveGen
	s.saving = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), providers.DefaultAPITimeout)
	defer cancel()

	resp, err := s.store.AutoSave(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.saveGen {
		// A newer autosave owns the indicator now.
		return
	}
	s.saving = false
	if err != nil {
		logging.WithReport(id, date).Warnw("autosave failed", "error", err.Error())
		return
	}
	if resp != nil && !resp.SavedAt.IsZero() {
		s.lastSavedAt = resp.SavedAt
	} else {
		s.lastSavedAt = time.Now()
	}
}

// Saving reports whether the most recently initiated autosave attempt
// is still in flight.
func (s *ReportSession) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// LastSavedAt returns the completion time of the last successful
// autosave, for the "last saved at" display. The zero time means no
// autosave has succeeded yet.
func (s *ReportSession) LastSavedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSavedAt
}

// cancelPendingAutoSaveLocked drops any queued debounce firing. Callers
// must hold s.mu. Invalidating the save generation also detaches any
// in-flight request from the indicator.
func (s *ReportSession) cancelPendingAutoSaveLocked() {
	if s.autosaveTimer != nil {
		s.autosaveTimer.Stop()
		s.autosaveTimer = nil
	}
	s.pendingPatch = nil
	s.saveGen++
	s.saving = false
}
