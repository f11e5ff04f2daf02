// Package draftstore persists per-device report snapshots keyed by
// calendar date. It is the safety net between the in-memory form state
// and the remote report store: every value is a JSON-serialized draft
// under the key "daily-report:<ISO-date>", and nothing outside the
// owning device ever reads or writes it.
package draftstore

import "github.com/gonyrida/sitedaily/internal/models/dtos"

// KeyPrefix namespaces draft keys inside the underlying key/value store.
const KeyPrefix = "daily-report:"

// Key returns the storage key for a calendar date.
func Key(date string) string {
	return KeyPrefix + date
}

// Store is the contract for a device-local draft store. Get reports a
// miss with found=false; err is reserved for storage-level failures.
type Store interface {
	Get(date string) (draft *dtos.ReportDraft, found bool, err error)
	Put(date string, draft *dtos.ReportDraft) error
	Delete(date string) error
	Close() error
}
