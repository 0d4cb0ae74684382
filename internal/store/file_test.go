package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	return s
}

func TestFileStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	_, ok, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	rec, err := s.Create(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, ModeSubscription, rec.Mode)
	assert.False(t, rec.TrialUsed)

	got, ok, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)
}

func TestFileStoreTrialIdempotence(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	// Absent user: no-op.
	granted, err := s.GrantTrial(ctx, 7, 3)
	require.NoError(t, err)
	assert.False(t, granted)

	_, err = s.Create(ctx, 7, "bob")
	require.NoError(t, err)

	granted, err = s.GrantTrial(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, granted)

	rec, _, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, rec.TrialUsed)
	require.NotNil(t, rec.SubscriptionEnd)
	firstEnd := *rec.SubscriptionEnd

	// Second grant: refused, no state change.
	granted, err = s.GrantTrial(ctx, 7, 3)
	require.NoError(t, err)
	assert.False(t, granted)

	rec, _, err = s.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, rec.SubscriptionEnd.Equal(firstEnd))
}

func TestFileStoreStatusMonotonicity(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	s.now = func() time.Time { return now }

	_, err := s.Create(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = s.GrantTrial(ctx, 1, 3)
	require.NoError(t, err)

	st, err := s.Status(ctx, 1)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Equal(t, KindTrial, st.Kind)
	assert.Equal(t, 3, st.DaysLeft)

	now = t0.Add(24 * time.Hour)
	st, err = s.Status(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, st.DaysLeft)

	// One minute short of the last full day gone: still one day left.
	now = t0.Add(47 * time.Hour)
	st, err = s.Status(ctx, 1)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Equal(t, 1, st.DaysLeft)

	// Less than a whole day remains: access flips off.
	now = t0.Add(49 * time.Hour)
	st, err = s.Status(ctx, 1)
	require.NoError(t, err)
	assert.False(t, st.Active)
	assert.Equal(t, KindExpired, st.Kind)
	assert.Equal(t, 0, st.DaysLeft)
}

func TestFileStorePaidOverridesTrial(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }

	_, err := s.Create(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = s.GrantTrial(ctx, 1, 3)
	require.NoError(t, err)

	granted, err := s.GrantPaid(ctx, 1, 30)
	require.NoError(t, err)
	assert.True(t, granted)

	rec, _, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, rec.HasPaid)
	// The paid expiry replaces the trial one, it does not stack.
	assert.True(t, rec.SubscriptionEnd.Equal(t0.Add(30*24*time.Hour)))

	st, err := s.Status(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, KindPaid, st.Kind)
	assert.Equal(t, 30, st.DaysLeft)
}

func TestFileStoreStatusWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	st, err := s.Status(ctx, 404)
	require.NoError(t, err)
	assert.Equal(t, Status{Kind: KindNone}, st)

	_, err = s.Create(ctx, 404, "ghost")
	require.NoError(t, err)
	st, err = s.Status(ctx, 404)
	require.NoError(t, err)
	assert.Equal(t, KindNone, st.Kind)
	assert.False(t, st.Active)
}

func TestFileStoreSetModeUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	// Upsert creates the record for unknown users.
	require.NoError(t, s.SetMode(ctx, 9, "carol", ModeContent))
	rec, ok, err := s.Get(ctx, 9)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ModeContent, rec.Mode)

	require.NoError(t, s.SetMode(ctx, 9, "carol", ModeRecommend))
	rec, _, err = s.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, ModeRecommend, rec.Mode)
	// Subscription state survives mode switches.
	assert.False(t, rec.TrialUsed)
}

func TestFileStorePayments(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	p, err := s.AddPayment(ctx, 5, 500, "1-month subscription")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, PaymentStatusPending, p.Status)

	list, err := s.Payments(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 500, list[0].Amount)

	other, err := s.Payments(ctx, 6)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = s.Create(ctx, 42, "dave")
	require.NoError(t, err)
	_, err = s.GrantTrial(ctx, 42, 3)
	require.NoError(t, err)
	_, err = s.AddPayment(ctx, 42, 500, "demo")
	require.NoError(t, err)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	rec, ok, err := reopened.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.TrialUsed)
	list, err := reopened.Payments(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
