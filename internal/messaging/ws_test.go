package messaging

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var evt Event
	if err := json.Unmarshal(msg, &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return evt
}

func TestHubBroadcastsToBookingRoom(t *testing.T) {
	hub := NewHub()
	e := echo.New()
	e.GET("/bookings/:id/ws", func(c echo.Context) error {
		return hub.Serve(c, c.Param("id"), "u-1")
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/bookings/b-1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if evt := readEvent(t, conn); evt.Type != EventPresenceJoin {
		t.Fatalf("expected presence_join, got %s", evt.Type)
	}
	if n := hub.Subscribers("b-1"); n != 1 {
		t.Fatalf("expected 1 subscriber, got %d", n)
	}

	hub.BroadcastStatus("b-2", "accepted")
	hub.BroadcastStatus("b-1", "accepted")

	evt := readEvent(t, conn)
	if evt.Type != EventBookingStatus {
		t.Fatalf("expected booking_status, got %s", evt.Type)
	}
	data, _ := evt.Data.(map[string]interface{})
	if data["booking_id"] != "b-1" || data["status"] != "accepted" {
		t.Fatalf("unexpected event data %v", evt.Data)
	}
}
