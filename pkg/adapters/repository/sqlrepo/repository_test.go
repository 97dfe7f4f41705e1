package sqlrepo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbURL := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	repo, err := NewRepository(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreate(t *testing.T, repo *Repository, alias, url, title string, at time.Time) *domain.Link {
	t.Helper()
	link := &domain.Link{Alias: alias, URL: url, Title: title, CreatedAt: at}
	require.NoError(t, repo.Create(context.Background(), link))
	return link
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	link := mustCreate(t, repo, "docs", "https://example.com/docs", "Docs", now)
	assert.NotZero(t, link.ID)

	got, err := repo.GetByAlias(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, "https://example.com/docs", got.URL)
	assert.Equal(t, "Docs", got.Title)
	assert.True(t, now.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, now)

	byID, err := repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "docs", byID.Alias)
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetByAlias(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestCreateDuplicateAlias(t *testing.T) {
	repo := newTestRepo(t)
	mustCreate(t, repo, "dup", "https://a.example", "", time.Now().UTC())

	err := repo.Create(context.Background(), &domain.Link{Alias: "dup", URL: "https://b.example", CreatedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, domain.ErrAliasTaken)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	a := mustCreate(t, repo, "first", "https://a.example", "A", time.Now().UTC())
	mustCreate(t, repo, "second", "https://b.example", "B", time.Now().UTC())

	a.Alias = "renamed"
	a.URL = "https://c.example"
	a.Title = ""
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Alias)
	assert.Equal(t, "https://c.example", got.URL)
	assert.Empty(t, got.Title)

	a.Alias = "second"
	assert.ErrorIs(t, repo.Update(ctx, a), domain.ErrAliasTaken)

	missing := &domain.Link{ID: 999, Alias: "ghost", URL: "https://g.example"}
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrLinkNotFound)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	link := mustCreate(t, repo, "gone", "https://a.example", "", time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, link.ID))
	_, err := repo.GetByAlias(ctx, "gone")
	assert.True(t, errors.Is(err, domain.ErrLinkNotFound))

	assert.ErrorIs(t, repo.Delete(ctx, link.ID), domain.ErrLinkNotFound)
}

func TestListOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	mustCreate(t, repo, "zeta", "https://z.example", "Alpha", base)
	mustCreate(t, repo, "untitled", "https://u.example", "", base.Add(time.Minute))
	mustCreate(t, repo, "alpha", "https://a.example", "Zulu", base.Add(2*time.Minute))
	mustCreate(t, repo, "mid", "https://m.example", "Mike", base.Add(3*time.Minute))

	byTitle, err := repo.ListByTitle(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "mid", "alpha", "untitled"}, aliases(byTitle))

	recent, err := repo.ListRecent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "alpha", "untitled", "zeta"}, aliases(recent))

	dump, err := repo.Dump(ctx)
	require.NoError(t, err)
	assert.Len(t, dump, 4)
	assert.Equal(t, "zeta", dump[0].Alias)
}

func TestListByTitleIgnoresCase(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	mustCreate(t, repo, "b", "https://b.example", "banana", now)
	mustCreate(t, repo, "a", "https://a.example", "Apple", now)
	mustCreate(t, repo, "c", "https://c.example", "Cherry", now)
	mustCreate(t, repo, "n", "https://n.example", "", now)

	links, err := repo.ListByTitle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "n"}, aliases(links))
}

func TestListEmpty(t *testing.T) {
	repo := newTestRepo(t)

	links, err := repo.ListByTitle(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		url    string
		driver string
	}{
		{"file:db.sqlite", "sqlite"},
		{"postgres://u:p@localhost:5432/links", "pgx"},
		{"postgresql://localhost/links", "pgx"},
		{"libsql://links-me.turso.io?authToken=x", "libsql"},
		{"wss://links-me.turso.io", "libsql"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.driver, dialectFor(tt.url).driver, tt.url)
	}
}

func aliases(links []domain.Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Alias)
	}
	return out
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	for name, src := range map[string]interface{}{
		"time":          want,
		"modernc text":  "2026-10-19 08:30:00+00:00",
		"default value": "2026-10-19 08:30:00",
		"rfc3339 bytes": []byte("2026-10-19T08:30:00Z"),
		"unix":          want.Unix(),
	} {
		t.Run(name, func(t *testing.T) {
			var ts timestamp
			require.NoError(t, ts.Scan(src))
			assert.True(t, want.Equal(ts.Time), ts.Time)
		})
	}

	var ts timestamp
	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(3.5))
}
