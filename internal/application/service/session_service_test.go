package service

import (
	"testing"
	"time"

	"github.com/sangkips/receipt-studio/internal/config"
	"github.com/sangkips/receipt-studio/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(now *time.Time) *SessionManager {
	m := NewSessionManager(config.SessionConfig{TTL: time.Hour, CleanupInterval: time.Minute}, nil, nil)
	m.now = func() time.Time { return *now }
	return m
}

func TestResolveCreatesAndReuses(t *testing.T) {
	now := time.Now()
	m := newTestSessions(&now)

	s, created, err := m.Resolve("")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := m.Resolve(s.ID.String())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, s, again)

	other, created, err := m.Resolve("not-a-uuid")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, other.ID)
	assert.Equal(t, 2, m.Count())
}

func TestSessionsHaveIndependentDrafts(t *testing.T) {
	now := time.Now()
	m := newTestSessions(&now)

	a, _, _ := m.Resolve("")
	b, _, _ := m.Resolve("")
	_, err := a.Model.SetField("storeName", "A")
	require.NoError(t, err)

	assert.Empty(t, b.Model.Snapshot().StoreName)
}

func TestCleanupExpiresIdleSessions(t *testing.T) {
	now := time.Now()
	m := newTestSessions(&now)

	idle, _, _ := m.Resolve("")
	busy, _, _ := m.Resolve("")
	require.True(t, busy.BeginExport())

	now = now.Add(2 * time.Hour)
	fresh, _, _ := m.Resolve("")

	assert.Equal(t, 1, m.cleanup())
	_, ok := m.Get(idle.ID)
	assert.False(t, ok)
	_, ok = m.Get(busy.ID)
	assert.True(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)
}

func TestExportGuard(t *testing.T) {
	s := &Session{}
	assert.True(t, s.BeginExport())
	assert.False(t, s.BeginExport())
	s.EndExport()
	assert.True(t, s.BeginExport())
}

func TestResolveEvictsLeastRecentlySeenAtLimit(t *testing.T) {
	now := time.Now()
	m := NewSessionManager(config.SessionConfig{TTL: time.Hour, MaxSessions: 2}, nil, nil)
	m.now = func() time.Time { return now }

	first, _, err := m.Resolve("")
	require.NoError(t, err)
	now = now.Add(time.Second)
	second, _, err := m.Resolve("")
	require.NoError(t, err)
	now = now.Add(time.Second)
	_, _, err = m.Resolve(first.ID.String())
	require.NoError(t, err)

	now = now.Add(time.Second)
	third, created, err := m.Resolve("")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, m.Count())

	_, ok := m.Get(second.ID)
	assert.False(t, ok)
	_, ok = m.Get(first.ID)
	assert.True(t, ok)
	_, ok = m.Get(third.ID)
	assert.True(t, ok)
}

func TestResolveRejectsWhenAllSessionsExporting(t *testing.T) {
	now := time.Now()
	m := NewSessionManager(config.SessionConfig{TTL: time.Hour, MaxSessions: 1}, nil, nil)
	m.now = func() time.Time { return now }

	busy, _, err := m.Resolve("")
	require.NoError(t, err)
	require.True(t, busy.BeginExport())

	_, _, err = m.Resolve("")
	assert.ErrorIs(t, err, apperror.ErrTooManySessions)
	assert.Equal(t, 1, m.Count())

	busy.EndExport()
	_, created, err := m.Resolve("")
	require.NoError(t, err)
	assert.True(t, created)
}
