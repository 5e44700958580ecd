package docapi

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-docgen/docgen"
)

// IdempotencyStore remembers generate results by Idempotency-Key so a
// retried request gets the same document instead of a new render.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (docgen.GenerateResult, bool, error)
	Set(ctx context.Context, key string, result docgen.GenerateResult, ttl time.Duration) error
}

// sweepInterval spaces the expiry sweeps run by Set.
const sweepInterval = time.Minute

// MemoryIdempotencyStore stores idempotency keys in memory. Expired entries
// are dropped when read and swept at most once per minute on Set.
type MemoryIdempotencyStore struct {
	mu        sync.RWMutex
	entries   map[string]idempotencyEntry
	clock     func() time.Time
	lastSweep time.Time
}

type idempotencyEntry struct {
	result    docgen.GenerateResult
	expiresAt time.Time
}

// NewMemoryIdempotencyStore creates an in-memory store.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		clock:   time.Now,
	}
}

// Get returns the result stored for key, dropping it when expired.
func (s *MemoryIdempotencyStore) Get(ctx context.Context, key string) (docgen.GenerateResult, bool, error) {
	_ = ctx
	if s == nil {
		return docgen.GenerateResult{}, false, docgen.NewError(docgen.KindInternal, "idempotency store is nil", nil)
	}
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return docgen.GenerateResult{}, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return docgen.GenerateResult{}, false, nil
	}
	return entry.result, true, nil
}

// Set stores result for key. A non-positive ttl never expires.
func (s *MemoryIdempotencyStore) Set(ctx context.Context, key string, result docgen.GenerateResult, ttl time.Duration) error {
	_ = ctx
	if s == nil {
		return docgen.NewError(docgen.KindInternal, "idempotency store is nil", nil)
	}
	if key == "" {
		return docgen.NewError(docgen.KindValidation, "idempotency key is required", nil)
	}
	if result.Filename == "" {
		return docgen.NewError(docgen.KindValidation, "generated filename is required", nil)
	}
	now := s.now()
	var expires time.Time
	if ttl > 0 {
		expires = now.Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastSweep) >= sweepInterval {
		for k, entry := range s.entries {
			if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}
	s.entries[key] = idempotencyEntry{result: result, expiresAt: expires}
	return nil
}

// Len returns the number of stored keys, expired or not.
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryIdempotencyStore) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// buildIdempotencyKey scopes the client key to the request content so the
// same key with a different payload renders again.
func buildIdempotencyKey(key string, req docgen.GenerateRequest) string {
	raw, _ := json.Marshal(idempotencyPayload{
		Key:      key,
		Template: req.Template,
		Format:   docgen.NormalizeFormat(req.Format),
		Upload:   req.Upload,
		Data:     req.Data,
	})
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("generate:%x", sum[:])
}

type idempotencyPayload struct {
	Key      string        `json:"key"`
	Template string        `json:"template"`
	Format   docgen.Format `json:"format"`
	Upload   bool          `json:"upload"`
	Data     docgen.Data   `json:"data,omitempty"`
}
