package client

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"

	ws "movierater/internal/microservices/websocket"
)

// ws_client.go = follows a tab's watch stream.

// WatchURL turns the API base URL into the tab's watch endpoint.
func WatchURL(apiURL, tabID string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	base := strings.TrimRight(u.Path, "/")
	u.Path = base + "/api/tabs/" + tabID + "/watch"
	u.RawPath = base + "/api/tabs/" + url.PathEscape(tabID) + "/watch"
	return u.String(), nil
}

// WatchTab prints title updates for tabID until ctx ends or the server
// closes the stream.
func WatchTab(ctx context.Context, apiURL, tabID string, out io.Writer) error {
	target, err := WatchURL(apiURL, tabID)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	done := make(chan error, 1)
	go func() {
		for {
			var msg ws.Message
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					done <- nil
				} else {
					done <- err
				}
				return
			}
			PrintMessage(out, &msg)
		}
	}()

	select {
	case <-ctx.Done():
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return nil
	case err := <-done:
		return err
	}
}

func PrintMessage(out io.Writer, msg *ws.Message) {
	switch msg.Type {
	case ws.TypeSystem:
		color.New(color.FgYellow).Fprintf(out, "🔔 %s\n", msg.Content)
	case ws.TypeTitle:
		color.New(color.FgCyan, color.Bold).Fprintf(out, "🎬 %s\n", msg.Title)
	case ws.TypeResponse:
		fmt.Fprintf(out, "%s: title=%q genre=%q\n", msg.Action, msg.Title, msg.Genre)
	case ws.TypeError:
		color.New(color.FgRed).Fprintf(out, "✗ %s\n", msg.Content)
	}
}
