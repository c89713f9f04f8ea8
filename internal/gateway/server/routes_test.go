package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheddocs "clientbrief/internal/cache/documents"
	"clientbrief/internal/gateway/handler"
	docrepo "clientbrief/internal/gateway/repository/documents"
	formsrepo "clientbrief/internal/gateway/repository/forms"
	sessionsrepo "clientbrief/internal/gateway/repository/sessions"
	briefingsvc "clientbrief/internal/gateway/service/briefing"
	"clientbrief/internal/gateway/service/events"
	formsvc "clientbrief/internal/gateway/service/forms"
	intakesvc "clientbrief/internal/gateway/service/intake"
)

const gatewayFormJSON = `{
	"title": "Discovery Questionnaire",
	"client_name": "Acme Corp",
	"sections": [
		{
			"title": "Background",
			"questions": [
				{"id": "goals", "label": "What are your goals?", "type": "textarea", "required": true},
				{"id": "integrations", "label": "Do you need integrations?", "type": "radio", "options": ["Yes", "No"]}
			]
		}
	]
}`

func newGatewayServer(t *testing.T) *httptest.Server {
	t.Helper()
	fstore := formsrepo.New("")
	sstore := sessionsrepo.New("")
	docs := cacheddocs.NewCachedStore(docrepo.NewMemoryStore(), cacheddocs.DefaultCacheConfig())
	ev := events.New()

	formsSvc := formsvc.New(fstore)
	intakeSvc := intakesvc.New(fstore, sstore, ev)
	briefingSvc := briefingsvc.New(fstore, sstore, docs, ev)

	mux := NewMux(
		handler.NewFormsHandler(formsSvc, intakeSvc, ev),
		handler.NewClientHandler(formsSvc, intakeSvc),
		handler.NewSessionsHandler(briefingSvc),
		handler.NewFormEventsHandler(formsSvc, ev),
		handler.NewDebugHandler(docs),
	)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doReq(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// TestGatewayEndToEnd walks the whole lifecycle through real routing:
// author a form, publish it, fill it in as the client, submit, analyze,
// and download the BRD.
func TestGatewayEndToEnd(t *testing.T) {
	srv := newGatewayServer(t)

	resp, raw := doReq(t, http.MethodPost, srv.URL+"/api/forms", gatewayFormJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var created struct {
		ID        string `json:"id"`
		Slug      string `json:"slug"`
		Published bool   `json:"published"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)
	assert.False(t, created.Published)

	resp, raw = doReq(t, http.MethodPost, srv.URL+"/api/forms/"+created.ID+"/publish", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var published struct {
		Slug      string `json:"slug"`
		Published bool   `json:"published"`
	}
	require.NoError(t, json.Unmarshal(raw, &published))
	require.Equal(t, "acme-corp", published.Slug)
	require.True(t, published.Published)

	resp, raw = doReq(t, http.MethodGet, srv.URL+"/api/client/acme-corp", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), "Discovery Questionnaire")

	resp, raw = doReq(t, http.MethodPost, srv.URL+"/api/client/acme-corp/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var sess sessionsrepo.Session
	require.NoError(t, json.Unmarshal(raw, &sess))
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, sessionsrepo.StatusInProgress, sess.Status)

	base := srv.URL + "/api/client/acme-corp/sessions/" + sess.ID
	resp, raw = doReq(t, http.MethodPut, base,
		`{"answers": {"goals": "Automate invoice processing", "integrations": "No"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = doReq(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = doReq(t, http.MethodPost, srv.URL+"/api/sessions/"+sess.ID+"/analyze", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), `"path":"brd.md"`)

	resp, raw = doReq(t, http.MethodGet, srv.URL+"/api/sessions/"+sess.ID+"/document", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/markdown; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(raw), "# Business Requirements Document")

	resp, raw = doReq(t, http.MethodGet, srv.URL+"/api/forms/"+created.ID+"/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var listing struct {
		FormID   string                 `json:"form_id"`
		Sessions []sessionsrepo.Session `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(raw, &listing))
	require.Len(t, listing.Sessions, 1)
	assert.Equal(t, sessionsrepo.StatusAnalyzed, listing.Sessions[0].Status)

	resp, raw = doReq(t, http.MethodGet, srv.URL+"/debug/cache-metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"origin_writes":2`)
}

func TestGatewayCORSPreflight(t *testing.T) {
	srv := newGatewayServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/forms", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")

	// A request without an Origin header gets the wildcard instead.
	resp2, raw := doReq(t, http.MethodGet, srv.URL+"/api/forms", "")
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, "*", resp2.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, string(raw), "forms")
}

func TestGatewayUnknownRoute(t *testing.T) {
	srv := newGatewayServer(t)

	resp, _ := doReq(t, http.MethodGet, srv.URL+"/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
