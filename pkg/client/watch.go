package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Watch subscribes to the notification socket and refreshes roster whenever
// a linked student saves a log or the roster changes. onEvent, when set, sees
// every event. Watch blocks until ctx is done or the connection drops.
func Watch(ctx context.Context, api *Client, roster *RosterStore, onEvent func(Event)) error {
	token := api.Token()
	if token == "" {
		return ErrNotSignedIn
	}
	endpoint, err := websocketURL(api.BaseURL())
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return &APIError{Status: resp.StatusCode, Message: "websocket handshake failed"}
		}
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}
		if onEvent != nil {
			onEvent(event)
		}
		if roster != nil && refreshesRoster(event.Type) {
			roster.FetchStudents(ctx)
		}
	}
}

func refreshesRoster(eventType string) bool {
	return eventType == EventLogSaved || eventType == EventRosterUpdated
}

func websocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", errors.New("unsupported base url scheme: " + u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/ws"
	return u.String(), nil
}
