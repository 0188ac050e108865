package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricofy/query-translator/internal/domain"
)

func TestLedger_Lifecycle(t *testing.T) {
	l := New(0)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	rec := l.Submit("Hola")
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, fixed, rec.Timestamp)
	assert.Equal(t, "Hola", rec.OriginalText)
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.Empty(t, rec.TranslatedText)

	res := domain.TranslationResult{
		TranslatedText:    "Hello",
		DetectedLanguage:  "Spanish",
		Sentiment:         domain.SentimentNeutral,
		SuggestedResponse: "",
	}
	done, err := l.Complete(rec.ID, res)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)
	assert.Equal(t, res, done.TranslationResult)

	got, err := l.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, done, got)
}

func TestLedger_FailKeepsResultFields(t *testing.T) {
	l := New(0)
	rec := l.Submit("Bonjour")

	failed, err := l.Fail(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, failed.Status)
	assert.Equal(t, rec.TranslationResult, failed.TranslationResult)
}

func TestLedger_UnknownID(t *testing.T) {
	l := New(0)

	_, err := l.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Complete("missing", domain.Identity("x"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Fail("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedger_RecentAndEviction(t *testing.T) {
	l := New(3)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, l.Submit(fmt.Sprintf("q%d", i)).ID)
	}

	assert.Equal(t, 3, l.Len())
	_, err := l.Get(ids[0])
	assert.ErrorIs(t, err, ErrNotFound, "oldest record evicted")

	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "q4", recent[0].OriginalText)
	assert.Equal(t, "q3", recent[1].OriginalText)

	assert.Len(t, l.Recent(0), 3)
	assert.Len(t, l.Recent(10), 3)
}

func TestLedger_Concurrent(t *testing.T) {
	l := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := l.Submit(fmt.Sprintf("q%d", i))
			_, err := l.Complete(rec.ID, domain.Identity(rec.OriginalText))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, l.Len())
	for _, rec := range l.Recent(0) {
		assert.Equal(t, domain.StatusCompleted, rec.Status)
	}
}
