package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierater/internal/detect"
	"movierater/internal/messaging"
)

type watchEnv struct {
	tabs *messaging.Tabs
	url  string
}

func setupWatchServer(t *testing.T, origins []string) *watchEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	bridge := messaging.NewBridge(time.Second, nil)
	d := detect.NewDetector(nil, detect.Options{GenreDetection: true})
	tabs := messaging.NewTabs(ctx, bridge, d, nil)
	hub := NewHub(ctx, tabs, bridge, nil)
	go hub.Run()

	r := gin.New()
	r.GET("/api/tabs/:tab_id/watch", WatchHandler(hub, origins))
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		srv.Close()
		tabs.CloseAll()
		cancel()
	})
	return &watchEnv{tabs: tabs, url: "ws" + strings.TrimPrefix(srv.URL, "http")}
}

func dial(t *testing.T, env *watchEnv, tabID string) *gorilla.Conn {
	t.Helper()
	conn, _, err := gorilla.DefaultDialer.Dial(env.url+"/api/tabs/"+tabID+"/watch", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *gorilla.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

const darkPage = `<html><head><title>Dark | Netflix</title>
<script type="application/ld+json">{"@type":"TVSeries","genre":"Thriller"}</script>
</head><body><div class="video-title">Dark</div></body></html>`

func TestWatch_SnapshotStreamsTitle(t *testing.T) {
	env := setupWatchServer(t, nil)
	conn := dial(t, env, "1")

	hello := readMessage(t, conn)
	assert.Equal(t, TypeSystem, hello.Type)
	assert.Equal(t, "1", hello.TabID)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeSnapshot, URL: "https://www.netflix.com/watch/80100172", HTML: darkPage}))

	update := readMessage(t, conn)
	assert.Equal(t, TypeTitle, update.Type)
	assert.Equal(t, "Dark", update.Title)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeRequest, Action: messaging.ActionGetMovieGenre}))
	reply := readMessage(t, conn)
	assert.Equal(t, TypeResponse, reply.Type)
	assert.Equal(t, "Thriller", reply.Genre)
}

func TestWatch_LateJoinerGetsCurrentTitle(t *testing.T) {
	env := setupWatchServer(t, nil)

	page, err := detect.NewPageFromString("https://www.netflix.com/watch/1", darkPage)
	require.NoError(t, err)
	require.NoError(t, env.tabs.Snapshot(context.Background(), "2", page))
	w, ok := env.tabs.Watcher("2")
	require.True(t, ok)
	require.Eventually(t, func() bool { return w.Current() == "Dark" }, time.Second, 10*time.Millisecond)

	conn := dial(t, env, "2")
	assert.Equal(t, TypeSystem, readMessage(t, conn).Type)
	current := readMessage(t, conn)
	assert.Equal(t, TypeTitle, current.Type)
	assert.Equal(t, "Dark", current.Title)
}

func TestWatch_UnknownMessageType(t *testing.T) {
	env := setupWatchServer(t, nil)
	conn := dial(t, env, "3")
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(Message{Type: "shout"}))
	msg := readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Contains(t, msg.Content, "unknown message type")
}

func TestWatch_TabCloseDisconnects(t *testing.T) {
	env := setupWatchServer(t, nil)
	conn := dial(t, env, "4")
	readMessage(t, conn)

	env.tabs.Close("4")

	msg := readMessage(t, conn)
	assert.Equal(t, TypeSystem, msg.Type)
	assert.Equal(t, "tab closed", msg.Content)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, gorilla.IsCloseError(err, gorilla.CloseNormalClosure), "got %v", err)
}

func waitForTitle(t *testing.T, c *Client, title string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case data := <-c.SendChannel:
			msg, err := MessageFromJSON(data)
			require.NoError(t, err)
			if msg.Type == TypeTitle && msg.Title == title {
				return
			}
		case <-timeout:
			t.Fatalf("no %q title update", title)
		}
	}
}

func TestHub_ReconnectAfterTabCloseFollowsNewWatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bridge := messaging.NewBridge(time.Second, nil)
	tabs := messaging.NewTabs(ctx, bridge, detect.NewDetector(nil, detect.Options{}), nil)
	defer tabs.CloseAll()
	hub := NewHub(ctx, tabs, bridge, nil)
	go hub.Run()

	old := NewClient("old", "5", nil, hub)
	require.True(t, hub.register(old))

	// The old client has not unregistered yet when the new one arrives.
	tabs.Close("5")
	fresh := NewClient("fresh", "5", nil, hub)
	require.True(t, hub.register(fresh))

	page, err := detect.NewPageFromString("https://www.netflix.com/watch/1", darkPage)
	require.NoError(t, err)
	require.NoError(t, tabs.Snapshot(ctx, "5", page))
	waitForTitle(t, fresh, "Dark")

	// The late unregister of the old client leaves the new room alone.
	hub.unregister(old)
	page, err = detect.NewPageFromString("https://www.netflix.com/watch/2",
		`<html><body><div class="video-title">Heat</div></body></html>`)
	require.NoError(t, err)
	require.NoError(t, tabs.Snapshot(ctx, "5", page))
	waitForTitle(t, fresh, "Heat")
}

func TestWatch_RejectsForeignOrigin(t *testing.T) {
	env := setupWatchServer(t, []string{"chrome-extension://abc"})

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := gorilla.DefaultDialer.Dial(env.url+"/api/tabs/5/watch", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"chrome-extension://abc"}}
	conn, _, err := gorilla.DefaultDialer.Dial(env.url+"/api/tabs/5/watch", header)
	require.NoError(t, err)
	_ = conn.Close()
}

func TestClient_SendMessageDropsWhenFull(t *testing.T) {
	c := NewClient("c1", "t1", nil, NewHub(context.Background(), nil, nil, nil))
	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, c.SendMessage([]byte("x")))
	}
	assert.Error(t, c.SendMessage([]byte("x")))

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.SendMessage([]byte("x")), ErrClientClosed)
}
