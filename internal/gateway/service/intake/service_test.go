package intake

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientbrief/internal/analysis"
	"clientbrief/internal/form"
	formsrepo "clientbrief/internal/gateway/repository/forms"
	sessionsrepo "clientbrief/internal/gateway/repository/sessions"
	"clientbrief/internal/gateway/service/events"
)

func publishedForm() form.Form {
	return form.Form{
		ID:         "form-1",
		Title:      "Discovery Questionnaire",
		ClientName: "Acme Corp",
		Slug:       "acme-corp",
		Published:  true,
		CreatedAt:  time.Now().UTC(),
		Sections: []form.Section{
			{
				Title: "Background",
				Questions: []form.Question{
					{ID: "goals", Label: "What are your goals?", Type: analysis.TypeTextarea, Required: true},
					{ID: "integrations", Label: "Do you need integrations?", Type: analysis.TypeRadio, Options: []string{"Yes", "No"}},
				},
			},
			{
				Title: "Systems",
				Questions: []form.Question{
					{
						ID: "systems", Label: "Which systems?", Type: analysis.TypeCheckbox,
						Options:   []string{"CRM", "ERP", "Billing"},
						Required:  true,
						VisibleIf: &form.Condition{QuestionID: "integrations", Operator: form.OpEquals, Value: "Yes"},
					},
				},
			},
		},
	}
}

func newService() (*Service, *events.Service) {
	fstore := formsrepo.New("")
	fstore.Put(publishedForm())
	ev := events.New()
	return New(fstore, sessionsrepo.New(""), ev), ev
}

func TestStartSession(t *testing.T) {
	svc, ev := newService()
	ctx := context.Background()

	sess, err := svc.Start(ctx, "acme-corp")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sess.ID, "session-"), "got id %q", sess.ID)
	assert.Equal(t, "form-1", sess.FormID)
	assert.Equal(t, sessionsrepo.StatusInProgress, sess.Status)
	assert.NotNil(t, sess.Answers)

	recent := ev.Recent("form-1")
	require.Len(t, recent, 1)
	assert.Equal(t, events.TypeSessionStarted, recent[0].Type)
	assert.Equal(t, sess.ID, recent[0].SessionID)
}

func TestStartUnknownSlug(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Start(context.Background(), "nobody-home")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestSaveAnswersValidates(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	sess, err := svc.Start(ctx, "acme-corp")
	require.NoError(t, err)

	_, err = svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{"surprise": "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown question "surprise"`)

	_, err = svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{"goals": float64(42)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected text")

	_, err = svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{"integrations": "Maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not one of the options")

	got, err := svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{"goals": "Automate invoicing"})
	require.NoError(t, err)
	got, err = svc.SaveAnswers(ctx, "acme-corp", got.ID, map[string]any{"integrations": "Yes"})
	require.NoError(t, err)
	assert.Equal(t, "Automate invoicing", got.Answers["goals"], "saves merge instead of replacing")
	assert.Equal(t, "Yes", got.Answers["integrations"])
}

func TestSessionIsScopedToItsForm(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	other := publishedForm()
	other.ID = "form-2"
	other.Slug = "other-client"
	svc.forms.Put(other)

	sess, err := svc.Start(ctx, "acme-corp")
	require.NoError(t, err)

	_, err = svc.SaveAnswers(ctx, "other-client", sess.ID, map[string]any{"goals": "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound, "sessions are invisible through a foreign slug")
}

func TestSubmitRequiresVisibleAnswers(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	sess, err := svc.Start(ctx, "acme-corp")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "acme-corp", sess.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goals")
	assert.NotContains(t, err.Error(), "systems", "hidden questions are not required")

	_, err = svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{"goals": "Automate invoicing", "integrations": "Yes"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "acme-corp", sess.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "systems", "required once its condition holds")
}

func TestSubmitPrunesHiddenAnswers(t *testing.T) {
	svc, ev := newService()
	ctx := context.Background()

	sess, err := svc.Start(ctx, "acme-corp")
	require.NoError(t, err)

	_, err = svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{
		"goals":        "Automate invoicing",
		"integrations": "Yes",
		"systems":      []any{"CRM", "ERP"},
	})
	require.NoError(t, err)

	// The client backtracks; the stale checkbox answer is now hidden.
	_, err = svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{"integrations": "No"})
	require.NoError(t, err)

	got, err := svc.Submit(ctx, "acme-corp", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sessionsrepo.StatusSubmitted, got.Status)
	require.NotNil(t, got.SubmittedAt)
	assert.NotContains(t, got.Answers, "systems", "hidden answers are dropped at submit")
	assert.Equal(t, "No", got.Answers["integrations"])

	recent := ev.Recent("form-1")
	require.NotEmpty(t, recent)
	assert.Equal(t, events.TypeSessionSubmitted, recent[len(recent)-1].Type)
}

func TestSubmitTwice(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	sess, err := svc.Start(ctx, "acme-corp")
	require.NoError(t, err)
	_, err = svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{"goals": "Automate invoicing"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "acme-corp", sess.ID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "acme-corp", sess.ID)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	_, err = svc.SaveAnswers(ctx, "acme-corp", sess.ID, map[string]any{"goals": "late edit"})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestListByForm(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	first, err := svc.Start(ctx, "acme-corp")
	require.NoError(t, err)
	second, err := svc.Start(ctx, "acme-corp")
	require.NoError(t, err)

	list, err := svc.ListByForm(ctx, "form-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)

	_, err = svc.ListByForm(ctx, "form-missing")
	assert.ErrorIs(t, err, ErrFormNotFound)
}
