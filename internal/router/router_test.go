package router

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"botfolio/internal/analytics"
	"botfolio/internal/store"
)

// fakeHandler answers Start with a fixed text and refuses everything
// else, so tests can see exactly where the router sent an update.
type fakeHandler struct {
	startText string
	handles   bool
}

func (h fakeHandler) Start(_ context.Context, _ Update) Reply {
	return Reply{Text: h.startText}
}

func (h fakeHandler) HandleCallback(_ context.Context, _ Update) (Reply, bool) {
	if h.handles {
		return Reply{Text: h.startText + " callback"}, true
	}
	return Reply{}, false
}

func (h fakeHandler) HandleText(_ context.Context, _ Update) (Reply, bool) {
	if h.handles {
		return Reply{Text: h.startText + " text"}, true
	}
	return Reply{}, false
}

type failingStore struct{}

var errStore = errors.New("store unavailable")

func (failingStore) Get(context.Context, int64) (store.UserRecord, bool, error) {
	return store.UserRecord{}, false, errStore
}
func (failingStore) Create(context.Context, int64, string) (store.UserRecord, error) {
	return store.UserRecord{}, errStore
}
func (failingStore) GrantTrial(context.Context, int64, int) (bool, error) { return false, errStore }
func (failingStore) GrantPaid(context.Context, int64, int) (bool, error)  { return false, errStore }
func (failingStore) Status(context.Context, int64) (store.Status, error) {
	return store.Status{}, errStore
}
func (failingStore) SetMode(context.Context, int64, string, store.Mode) error { return errStore }
func (failingStore) AddPayment(context.Context, int64, int, string) (store.PaymentRecord, error) {
	return store.PaymentRecord{}, errStore
}
func (failingStore) Payments(context.Context, int64) ([]store.PaymentRecord, error) {
	return nil, errStore
}
func (failingStore) Close() error { return nil }

func newTestRouter(t *testing.T) (*Router, store.UserStore) {
	t.Helper()
	users, err := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)

	r := New(users, analytics.New(nil, zap.NewNop()), zap.NewNop())
	r.Register(store.ModeSubscription, fakeHandler{startText: "subscription home", handles: true})
	r.Register(store.ModeRecommend, fakeHandler{startText: "recommend home", handles: true})
	r.Register(store.ModeContent, fakeHandler{startText: "content home"})
	return r, users
}

func TestCurrentModeDefaultsToSubscription(t *testing.T) {
	ctx := context.Background()
	r, users := newTestRouter(t)

	assert.Equal(t, store.ModeSubscription, r.CurrentMode(ctx, 1))

	// Blank persisted mode also falls back.
	_, err := users.Create(ctx, 2, "alice")
	require.NoError(t, err)
	assert.Equal(t, store.ModeSubscription, r.CurrentMode(ctx, 2))

	broken := New(failingStore{}, analytics.New(nil, zap.NewNop()), zap.NewNop())
	assert.Equal(t, store.ModeSubscription, broken.CurrentMode(ctx, 1))
}

func TestStartCreatesUserAndShowsPortfolio(t *testing.T) {
	ctx := context.Background()
	r, users := newTestRouter(t)

	rep := r.Route(ctx, Update{UserID: 1, Username: "alice", Text: "/start"})
	assert.Contains(t, rep.Text, "portfolio")
	require.Len(t, rep.Menu, 4)

	rec, ok, err := users.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", rec.Username)
}

func TestModeSwitchPersistsAndEntersMode(t *testing.T) {
	ctx := context.Background()
	r, users := newTestRouter(t)

	rep := r.Route(ctx, Update{UserID: 1, Username: "alice", Callback: "mode_info"})
	assert.Equal(t, "recommend home", rep.Text)
	assert.True(t, rep.Edit)

	rec, ok, err := users.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, store.ModeRecommend, rec.Mode)

	// Later updates go to the persisted mode.
	rep = r.Route(ctx, Update{UserID: 1, Text: "anything"})
	assert.Equal(t, "recommend home text", rep.Text)
}

func TestModeSwitchUnknownMode(t *testing.T) {
	r, _ := newTestRouter(t)
	rep := r.Route(context.Background(), Update{UserID: 1, Callback: "mode_bogus"})
	assert.Contains(t, rep.Text, "Unknown bot")
}

func TestModeSwitchStoreFailureOffersRetry(t *testing.T) {
	r := New(failingStore{}, analytics.New(nil, zap.NewNop()), zap.NewNop())
	rep := r.Route(context.Background(), Update{UserID: 1, Callback: "mode_content"})
	assert.Contains(t, rep.Text, "try again")
	require.Len(t, rep.Menu, 1)
	assert.Equal(t, "mode_content", rep.Menu[0][0].Action)
}

func TestStaleCallbackGetsEntryMenu(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(t)

	// Content handler refuses everything, so a leftover callback from
	// another mode lands back on its entry screen.
	r.Route(ctx, Update{UserID: 1, Callback: "mode_content"})
	rep := r.Route(ctx, Update{UserID: 1, Callback: "get_trial"})
	assert.Equal(t, "content home", rep.Text)

	rep = r.Route(ctx, Update{UserID: 1, Text: "stray text"})
	assert.Equal(t, "content home", rep.Text)
}

func TestAboutModeIsTerminalScreen(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(t)

	rep := r.Route(ctx, Update{UserID: 1, Callback: "mode_about"})
	assert.Contains(t, rep.Text, "portfolio")
	assert.True(t, rep.Edit)

	// While in about mode every plain update repeats the screen.
	rep = r.Route(ctx, Update{UserID: 1, Text: "hello"})
	assert.Contains(t, rep.Text, "portfolio")
}

func TestModeCommandShowsMenu(t *testing.T) {
	r, _ := newTestRouter(t)
	rep := r.Route(context.Background(), Update{UserID: 1, Text: "/mode"})
	assert.Len(t, rep.Menu, 4)
	assert.Equal(t, "mode_subscription", rep.Menu[0][0].Action)
}

func TestHelpShowsModeAndID(t *testing.T) {
	r, _ := newTestRouter(t)
	rep := r.Route(context.Background(), Update{UserID: 42, Text: "/help"})
	assert.Contains(t, rep.Text, "Subscription bot")
	assert.Contains(t, rep.Text, "42")
}
