// Package ledger keeps an in-memory history of submitted queries for the
// lifetime of the process. Nothing survives a restart.
package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pricofy/query-translator/internal/domain"
)

// ErrNotFound is returned for unknown or already evicted record ids.
var ErrNotFound = errors.New("query record not found")

// Ledger stores QueryRecords newest last. When MaxEntries is positive the
// oldest records are evicted once the limit is reached.
type Ledger struct {
	mu         sync.RWMutex
	records    map[string]*domain.QueryRecord
	order      []string
	maxEntries int
	now        func() time.Time
}

// New creates a Ledger holding at most maxEntries records (0 = unbounded).
func New(maxEntries int) *Ledger {
	return &Ledger{
		records:    make(map[string]*domain.QueryRecord),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Submit records a new pending query with placeholder result fields.
func (l *Ledger) Submit(text string) domain.QueryRecord {
	rec := &domain.QueryRecord{
		ID:           uuid.NewString(),
		Timestamp:    l.now().UTC(),
		OriginalText: text,
		TranslationResult: domain.TranslationResult{
			Sentiment: domain.SentimentNeutral,
		},
		Status: domain.StatusPending,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.records[rec.ID] = rec
	l.order = append(l.order, rec.ID)
	if l.maxEntries > 0 && len(l.order) > l.maxEntries {
		evict := len(l.order) - l.maxEntries
		for _, id := range l.order[:evict] {
			delete(l.records, id)
		}
		l.order = append([]string(nil), l.order[evict:]...)
	}
	return *rec
}

// Complete stores the pipeline result and marks the record completed.
func (l *Ledger) Complete(id string, res domain.TranslationResult) (domain.QueryRecord, error) {
	return l.update(id, func(rec *domain.QueryRecord) {
		rec.TranslationResult = res
		rec.Status = domain.StatusCompleted
	})
}

// Fail marks the record as errored, leaving its result fields untouched.
func (l *Ledger) Fail(id string) (domain.QueryRecord, error) {
	return l.update(id, func(rec *domain.QueryRecord) {
		rec.Status = domain.StatusError
	})
}

func (l *Ledger) update(id string, fn func(*domain.QueryRecord)) (domain.QueryRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[id]
	if !ok {
		return domain.QueryRecord{}, ErrNotFound
	}
	fn(rec)
	return *rec, nil
}

// Get returns a copy of the record with the given id.
func (l *Ledger) Get(id string) (domain.QueryRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[id]
	if !ok {
		return domain.QueryRecord{}, ErrNotFound
	}
	return *rec, nil
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (l *Ledger) Recent(n int) []domain.QueryRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.order) {
		n = len(l.order)
	}
	out := make([]domain.QueryRecord, 0, n)
	for i := len(l.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, *l.records[l.order[i]])
	}
	return out
}

// Len returns the number of retained records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}
