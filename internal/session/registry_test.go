package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	token, c := r.Create(&domain.Account{ID: "usr_1", Username: "alice"})
	require.NotEmpty(t, token)

	snap := c.Snapshot()
	assert.Equal(t, token, snap.SessionID)
	assert.Equal(t, "usr_1", snap.AccountID)
	assert.Equal(t, domain.StateInitial, snap.State)
	assert.Equal(t, domain.LanguageEnglish, snap.Language)
	assert.Equal(t, domain.ModePatient, snap.Mode)

	got, err := r.Get(token)
	require.NoError(t, err)
	assert.Same(t, c, got)

	assert.True(t, r.Delete(token))
	assert.False(t, r.Delete(token))
	_, err = r.Get(token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionsAreIndependent(t *testing.T) {
	r := NewRegistry()
	_, a := r.Create(&domain.Account{ID: "usr_a"})
	_, b := r.Create(&domain.Account{ID: "usr_b"})

	_, err := a.Do(func(s *domain.Session) error {
		s.Mode = domain.ModeDoctor
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeDoctor, a.Snapshot().Mode)
	assert.Equal(t, domain.ModePatient, b.Snapshot().Mode)
	assert.Equal(t, 2, r.Len())
}

func TestDoReturnsSnapshotOnError(t *testing.T) {
	r := NewRegistry()
	_, c := r.Create(&domain.Account{ID: "usr_a"})
	boom := errors.New("boom")

	snap, err := c.Do(func(s *domain.Session) error {
		s.Notice = "partial"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "partial", snap.Notice)
}

func TestSnapshotIsDetached(t *testing.T) {
	r := NewRegistry()
	_, c := r.Create(&domain.Account{ID: "usr_a"})
	_, _ = c.Do(func(s *domain.Session) error {
		s.Analysis.FollowUpAnswers = append(s.Analysis.FollowUpAnswers, domain.FollowUpAnswer{Question: "q", Answer: "a"})
		return nil
	})

	snap := c.Snapshot()
	snap.Analysis.FollowUpAnswers[0].Answer = "changed"
	assert.Equal(t, "a", c.Snapshot().Analysis.FollowUpAnswers[0].Answer)
}

func TestConcurrentDo(t *testing.T) {
	r := NewRegistry()
	_, c := r.Create(&domain.Account{ID: "usr_a"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Do(func(s *domain.Session) error {
				s.FollowUpCount++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Snapshot().FollowUpCount)
}
