package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientbrief/internal/gateway/service/events"
)

func TestFormEventsWSDeliversEvents(t *testing.T) {
	env := newTestEnv()
	f := env.publishedForm(t)

	srv := httptest.NewServer(http.HandlerFunc(env.ws.HandleFormEventsWS))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?form_id=" + f.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var ack formWSOutbound
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, "subscribed", ack.Type)
	assert.Equal(t, f.ID, ack.FormID)

	// The ack is only written once the subscription is registered, so a
	// publish after reading it is guaranteed to be delivered.
	env.events.Publish(events.Event{Type: events.TypeSessionStarted, FormID: f.ID, SessionID: "session-ws"})

	var evt formWSOutbound
	require.NoError(t, conn.ReadJSON(&evt))
	require.Equal(t, "event", evt.Type)
	require.NotNil(t, evt.Event)
	assert.Equal(t, events.TypeSessionStarted, evt.Event.Type)
	assert.Equal(t, "session-ws", evt.Event.SessionID)

	require.NoError(t, conn.WriteJSON(formWSInbound{Type: "ping", FormID: f.ID}))
	var pong formWSOutbound
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong.Type)
}

func TestFormEventsWSRejectsBadFrames(t *testing.T) {
	env := newTestEnv()
	f := env.publishedForm(t)

	srv := httptest.NewServer(http.HandlerFunc(env.ws.HandleFormEventsWS))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "?form_id=" + f.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var ack formWSOutbound
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, "subscribed", ack.Type)

	require.NoError(t, conn.WriteJSON(formWSInbound{Type: "ping", FormID: "form-other"}))
	var frame formWSOutbound
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
	assert.Equal(t, "invalid_argument", frame.Code)
	assert.Equal(t, "formId mismatch", frame.Message)

	require.NoError(t, conn.WriteJSON(formWSInbound{Type: "subscribe"}))
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
	assert.Contains(t, frame.Message, "unsupported type")
}

func TestFormEventsWSRequiresForm(t *testing.T) {
	env := newTestEnv()

	rr := do(t, env.ws.HandleFormEventsWS, http.MethodGet, "/api/ws/forms", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, env.ws.HandleFormEventsWS, http.MethodGet, "/api/ws/forms?form_id=form-nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
