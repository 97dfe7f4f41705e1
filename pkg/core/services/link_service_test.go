package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
)

func newLinkService() *LinkService {
	s := NewLinkService(memory.NewRepository())
	s.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateNormalizes(t *testing.T) {
	s := newLinkService()

	link, err := s.Create(context.Background(), domain.LinkInput{
		Alias: "  My-Docs ",
		URL:   " https://example.com/docs ",
		Title: "  Docs ",
	})
	require.NoError(t, err)
	assert.NotZero(t, link.ID)
	assert.Equal(t, "my-docs", link.Alias)
	assert.Equal(t, "https://example.com/docs", link.URL)
	assert.Equal(t, "Docs", link.Title)
	assert.Equal(t, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), link.CreatedAt)
}

func TestCreateConflict(t *testing.T) {
	s := newLinkService()
	ctx := context.Background()

	_, err := s.Create(ctx, domain.LinkInput{Alias: "gh", URL: "https://github.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx, domain.LinkInput{Alias: "GH", URL: "https://gitlab.com"})
	assert.ErrorIs(t, err, domain.ErrAliasTaken)
}

func TestResolve(t *testing.T) {
	s := newLinkService()
	ctx := context.Background()
	_, err := s.Create(ctx, domain.LinkInput{Alias: "gh", URL: "https://github.com"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		alias   string
		wantURL string
		wantErr error
	}{
		{name: "exact", alias: "gh", wantURL: "https://github.com"},
		{name: "upper case", alias: "GH", wantURL: "https://github.com"},
		{name: "unknown", alias: "nope", wantErr: domain.ErrLinkNotFound},
		{name: "blank", alias: "   ", wantErr: domain.ErrLinkNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := s.Resolve(ctx, tt.alias)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, link.URL)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := newLinkService()
	ctx := context.Background()
	link, err := s.Create(ctx, domain.LinkInput{Alias: "a", URL: "https://a.example", Title: "A"})
	require.NoError(t, err)
	_, err = s.Create(ctx, domain.LinkInput{Alias: "b", URL: "https://b.example"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, link.ID, domain.LinkInput{Alias: "Alpha", URL: "https://alpha.example"})
	require.NoError(t, err)
	assert.Equal(t, "alpha", updated.Alias)
	assert.Empty(t, updated.Title)
	assert.Equal(t, link.CreatedAt, updated.CreatedAt)

	_, err = s.Update(ctx, link.ID, domain.LinkInput{Alias: "b", URL: "https://b.example"})
	assert.ErrorIs(t, err, domain.ErrAliasTaken)

	_, err = s.Update(ctx, 404, domain.LinkInput{Alias: "x", URL: "https://x.example"})
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	require.NoError(t, s.Delete(ctx, link.ID))
	assert.ErrorIs(t, s.Delete(ctx, link.ID), domain.ErrLinkNotFound)
}

func TestListPublicFilters(t *testing.T) {
	s := newLinkService()
	ctx := context.Background()
	for _, in := range []domain.LinkInput{
		{Alias: "gh", URL: "https://github.com", Title: "GitHub"},
		{Alias: "mail", URL: "https://mail.example", Title: "Mail"},
		{Alias: "cal", URL: "https://calendar.example"},
	} {
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := s.ListPublic(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "gh", all[0].Alias)
	assert.Equal(t, "cal", all[2].Alias)

	hits, err := s.ListPublic(ctx, "  GITHUB ")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "gh", hits[0].Alias)

	hits, err = s.ListPublic(ctx, "example")
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}
