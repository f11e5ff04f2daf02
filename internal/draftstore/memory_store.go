package draftstore

import (
	"encoding/json"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/normalize"
)

// MemoryStore keeps drafts in process memory. Drafts are stored as JSON
// so reads exercise the same decode/migration path as the file-backed
// store.
type MemoryStore struct {
	cache *cache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory draft store. Drafts never expire;
// they are superseded or deleted explicitly.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(date string) (*dtos.ReportDraft, bool, error) {
	val, found := s.cache.Get(Key(date))
	if !found {
		return nil, false, nil
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("unexpected draft value type %T for %s", val, date)
	}
	draft, err := normalize.DecodeDraft(data)
	if err != nil {
		return nil, false, err
	}
	return draft, true, nil
}

func (s *MemoryStore) Put(date string, draft *dtos.ReportDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft for %s: %w", date, err)
	}
	s.cache.Set(Key(date), data, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(date string) error {
	s.cache.Delete(Key(date))
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
