package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientbrief/internal/gateway/service/events"
)

func TestWatchReplaysRecentEvents(t *testing.T) {
	env := newTestEnv()
	f := env.publishedForm(t)

	sess, err := env.intakeSvc.Start(context.Background(), "acme-corp")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/forms/"+f.ID+"/watch", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	env.forms.HandleFormByID(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, "data: "), body)
	assert.Contains(t, body, `"type":"session_started"`)
	assert.Contains(t, body, sess.ID)
}

func TestWatchStreamsLiveEvents(t *testing.T) {
	env := newTestEnv()
	f := env.publishedForm(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/forms/"+f.ID+"/watch", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		env.forms.HandleFormByID(rr, req)
	}()

	// A publish that lands before the subscription still reaches the
	// stream through the backlog replay, so this cannot flake.
	time.Sleep(50 * time.Millisecond)
	env.events.Publish(events.Event{Type: events.TypeSessionSubmitted, FormID: f.ID, SessionID: "session-live"})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rr.Body.String()
	assert.Contains(t, body, `"type":"session_submitted"`)
	assert.Contains(t, body, "session-live")
}

func TestWatchRejectsUnknownForm(t *testing.T) {
	env := newTestEnv()
	env.publishedForm(t)

	rr := do(t, env.forms.HandleFormByID, http.MethodGet, "/api/forms/form-nope/watch", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, env.forms.HandleFormByID, http.MethodPost, "/api/forms/form-nope/watch", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
