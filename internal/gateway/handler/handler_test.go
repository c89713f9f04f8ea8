package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cacheddocs "clientbrief/internal/cache/documents"
	"clientbrief/internal/form"
	docrepo "clientbrief/internal/gateway/repository/documents"
	formsrepo "clientbrief/internal/gateway/repository/forms"
	sessionsrepo "clientbrief/internal/gateway/repository/sessions"
	briefingsvc "clientbrief/internal/gateway/service/briefing"
	"clientbrief/internal/gateway/service/events"
	formsvc "clientbrief/internal/gateway/service/forms"
	intakesvc "clientbrief/internal/gateway/service/intake"
)

type testEnv struct {
	forms    *FormsHandler
	client   *ClientHandler
	sessions *SessionsHandler
	ws       *FormEventsHandler
	debug    *DebugHandler

	formsSvc  *formsvc.Service
	intakeSvc *intakesvc.Service
	events    *events.Service
}

func newTestEnv() *testEnv {
	fstore := formsrepo.New("")
	sstore := sessionsrepo.New("")
	docs := cacheddocs.NewCachedStore(docrepo.NewMemoryStore(), cacheddocs.DefaultCacheConfig())
	ev := events.New()

	formsSvc := formsvc.New(fstore)
	intakeSvc := intakesvc.New(fstore, sstore, ev)
	briefingSvc := briefingsvc.New(fstore, sstore, docs, ev)

	return &testEnv{
		forms:     NewFormsHandler(formsSvc, intakeSvc, ev),
		client:    NewClientHandler(formsSvc, intakeSvc),
		sessions:  NewSessionsHandler(briefingSvc),
		ws:        NewFormEventsHandler(formsSvc, ev),
		debug:     NewDebugHandler(docs),
		formsSvc:  formsSvc,
		intakeSvc: intakeSvc,
		events:    ev,
	}
}

// publishedForm creates and publishes the standard test questionnaire:
// a required textarea, a radio gate, and a checkbox shown when the gate
// answer is Yes.
func (e *testEnv) publishedForm(t *testing.T) form.Form {
	t.Helper()
	created, err := e.formsSvc.Create(context.Background(), form.Form{
		Title:      "Discovery Questionnaire",
		ClientName: "Acme Corp",
		Sections: []form.Section{
			{
				Title: "Background",
				Questions: []form.Question{
					{ID: "goals", Label: "What are your goals?", Type: "textarea", Required: true},
					{ID: "integrations", Label: "Do you need integrations?", Type: "radio", Options: []string{"Yes", "No"}},
				},
			},
			{
				Title: "Systems",
				Questions: []form.Question{
					{
						ID:       "systems",
						Label:    "Which systems need integration?",
						Type:     "checkbox",
						Required: true,
						Options:  []string{"CRM", "ERP", "Billing"},
						VisibleIf: &form.Condition{
							QuestionID: "integrations",
							Operator:   form.OpEquals,
							Value:      "Yes",
						},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	published, err := e.formsSvc.Publish(context.Background(), created.ID)
	require.NoError(t, err)
	return published
}

func do(t *testing.T, h http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}
