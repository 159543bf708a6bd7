package messaging

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movierater/internal/detect"
)

type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) Respond(ctx context.Context, action string) (Response, error) {
	args := m.Called(action)
	return args.Get(0).(Response), args.Error(1)
}

// blockingResponder never answers until its context ends.
type blockingResponder struct{}

func (blockingResponder) Respond(ctx context.Context, action string) (Response, error) {
	<-ctx.Done()
	return Response{}, ctx.Err()
}

func TestBridge_RoutesToResponder(t *testing.T) {
	b := NewBridge(time.Second, nil)
	r := new(MockResponder)
	r.On("Respond", ActionGetMovieTitle).Return(Response{Title: "Heat"}, nil)
	b.Register("tab-1", r)

	resp, err := b.Request(context.Background(), "tab-1", ActionGetMovieTitle)
	require.NoError(t, err)
	assert.Equal(t, "Heat", resp.Title)
	r.AssertExpectations(t)
}

func TestBridge_UnknownTab(t *testing.T) {
	b := NewBridge(time.Second, nil)
	_, err := b.Request(context.Background(), "missing", ActionGetMovieTitle)
	assert.ErrorIs(t, err, ErrResponderUnavailable)

	b.Register("gone", new(MockResponder))
	b.Unregister("gone")
	_, err = b.Request(context.Background(), "gone", ActionGetMovieTitle)
	assert.ErrorIs(t, err, ErrResponderUnavailable)
}

func TestBridge_TimesOut(t *testing.T) {
	b := NewBridge(50*time.Millisecond, nil)
	b.Register("slow", blockingResponder{})

	start := time.Now()
	_, err := b.Request(context.Background(), "slow", ActionGetMovieTitle)
	assert.ErrorIs(t, err, ErrResponderTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func snapshot(t *testing.T, markup string) *detect.Page {
	t.Helper()
	p, err := detect.NewPageFromString("https://example.com/watch", markup)
	require.NoError(t, err)
	return p
}

func TestTabs_SnapshotAndRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBridge(time.Second, nil)
	tabs := NewTabs(ctx, b, detect.NewDetector(nil, detect.Options{GenreDetection: true}), nil)
	defer tabs.CloseAll()

	page := snapshot(t, `<head><title>Alien | Films</title><meta property="og:genre" content="horror"></head>`)
	require.NoError(t, tabs.Snapshot(ctx, "7", page))

	w, ok := tabs.Watcher("7")
	require.True(t, ok)
	assert.Eventually(t, func() bool { return w.Current() == "Alien" }, 2*time.Second, 10*time.Millisecond)

	resp, err := b.Request(ctx, "7", ActionGetMovieTitle)
	require.NoError(t, err)
	assert.Equal(t, "Alien", resp.Title)

	resp, err = b.Request(ctx, "7", ActionGetMovieGenre)
	require.NoError(t, err)
	assert.Equal(t, "Horror", resp.Genre)

	_, err = b.Request(ctx, "7", "openPopup")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestTabs_RequestSeesSnapshotImmediately(t *testing.T) {
	ctx := context.Background()
	b := NewBridge(time.Second, nil)
	tabs := NewTabs(ctx, b, detect.NewDetector(nil, detect.Options{GenreDetection: true}), nil)
	defer tabs.CloseAll()

	alpha := snapshot(t, `<head><title>Alpha | Films</title></head>`)
	bravo := snapshot(t, `<head><title>Bravo | Films</title><meta property="og:genre" content="western"></head>`)

	for i := 0; i < 100; i++ {
		tabID := fmt.Sprintf("tab-%d", i)
		require.NoError(t, tabs.Snapshot(ctx, tabID, alpha))
		require.NoError(t, tabs.Snapshot(ctx, tabID, bravo))

		resp, err := b.Request(ctx, tabID, ActionGetMovieTitle)
		require.NoError(t, err)
		require.Equal(t, "Bravo", resp.Title)

		resp, err = b.Request(ctx, tabID, ActionGetMovieGenre)
		require.NoError(t, err)
		require.Equal(t, "Western", resp.Genre)
	}
}

func TestTabs_GenreActionDisabled(t *testing.T) {
	ctx := context.Background()
	b := NewBridge(time.Second, nil)
	tabs := NewTabs(ctx, b, detect.NewDetector(nil, detect.Options{}), nil)
	defer tabs.CloseAll()

	require.NoError(t, tabs.Snapshot(ctx, "1", snapshot(t, `<title>Heat</title>`)))
	_, err := b.Request(ctx, "1", ActionGetMovieGenre)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestTabs_CloseMakesTabUnavailable(t *testing.T) {
	ctx := context.Background()
	b := NewBridge(time.Second, nil)
	tabs := NewTabs(ctx, b, detect.NewDetector(nil, detect.Options{}), nil)

	require.NoError(t, tabs.Snapshot(ctx, "1", snapshot(t, `<title>Heat</title>`)))
	tabs.Close("1")
	tabs.Close("1")

	_, ok := tabs.Watcher("1")
	assert.False(t, ok)
	_, err := b.Request(ctx, "1", ActionGetMovieTitle)
	assert.ErrorIs(t, err, ErrResponderUnavailable)
}
