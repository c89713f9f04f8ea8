package forms

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientbrief/internal/analysis"
	"clientbrief/internal/form"
	formsrepo "clientbrief/internal/gateway/repository/forms"
)

func newService() *Service {
	return New(formsrepo.New(""))
}

func draft() form.Form {
	return form.Form{
		Title:      "Discovery Questionnaire",
		ClientName: "Acme Corp",
		Sections: []form.Section{{
			Title: "Background",
			Questions: []form.Question{
				{ID: "goals", Label: "What are your goals?", Type: analysis.TypeTextarea, Required: true},
				{ID: "integrations", Label: "Do you need integrations?", Type: analysis.TypeRadio, Options: []string{"Yes", "No"}},
			},
		}},
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	in := draft()
	in.ID = "client-chosen-id"
	in.Published = true
	in.Slug = "sneaky"

	got, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.ID, "form-"), "server assigns the id, got %q", got.ID)
	assert.False(t, got.Published, "drafts start unpublished")
	assert.Empty(t, got.Slug)
	assert.False(t, got.CreatedAt.IsZero())

	fetched, err := svc.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.ID, fetched.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	svc := newService()

	bad := draft()
	bad.Title = ""
	_, err := svc.Create(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}

func TestGetUnknownForm(t *testing.T) {
	svc := newService()
	_, err := svc.Get(context.Background(), "form-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEditsDraftsOnly(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, draft())
	require.NoError(t, err)

	edited := draft()
	edited.Title = "Discovery v2"
	edited.ID = "forged-id"
	got, err := svc.Update(ctx, created.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID, "identity is server-owned")
	assert.Equal(t, "Discovery v2", got.Title)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)

	_, err = svc.Publish(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, edited)
	assert.ErrorIs(t, err, ErrPublished, "published forms are frozen")
}

func TestPublishDerivesSlugFromClient(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, draft())
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "acme-corp")
	assert.ErrorIs(t, err, ErrNotFound, "unpublished forms are invisible to clients")

	published, err := svc.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", published.Slug)
	assert.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)

	visible, err := svc.GetBySlug(ctx, "acme-corp")
	require.NoError(t, err)
	assert.Equal(t, created.ID, visible.ID)

	again, err := svc.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, published.Slug, again.Slug, "republish keeps the slug")
}

func TestPublishFallsBackToTitle(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	in := draft()
	in.ClientName = ""
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)

	published, err := svc.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "discovery-questionnaire", published.Slug)
}
