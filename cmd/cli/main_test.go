package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := memory.NewRepository()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, src.Create(ctx, &domain.Link{Alias: "docs", URL: "https://example.com/docs", Title: "Docs", CreatedAt: created}))
	require.NoError(t, src.Create(ctx, &domain.Link{Alias: "wiki", URL: "https://example.com/wiki", CreatedAt: created}))

	var buf bytes.Buffer
	require.NoError(t, doExport(ctx, src, &buf))

	dst := memory.NewRepository()
	require.NoError(t, dst.Create(ctx, &domain.Link{Alias: "wiki", URL: "https://other.example.com", CreatedAt: created}))

	n, err := doImport(ctx, dst, &buf, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	docs, err := dst.GetByAlias(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "Docs", docs.Title)
	assert.True(t, created.Equal(docs.CreatedAt))

	wiki, err := dst.GetByAlias(ctx, "wiki")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com", wiki.URL)
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, doExport(context.Background(), memory.NewRepository(), &buf))

	var links []domain.Link
	require.NoError(t, json.Unmarshal(buf.Bytes(), &links))
	assert.Empty(t, links)
	assert.Equal(t, "[]\n", buf.String())
}

func TestImportRejectsMalformed(t *testing.T) {
	_, err := doImport(context.Background(), memory.NewRepository(), strings.NewReader("{"), zerolog.Nop())
	assert.Error(t, err)
}

func TestImportSkipsInvalidLinks(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	in := `[
		{"alias":"BAD ALIAS!","url":"notaurl"},
		{"alias":"script","url":"javascript:alert(1)"},
		{"alias":"metrics","url":"https://example.com/metrics"},
		{"alias":" Docs ","url":" https://example.com/docs ","title":" Docs "}
	]`

	n, err := doImport(ctx, repo, strings.NewReader(in), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	links, err := repo.Dump(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "docs", links[0].Alias)
	assert.Equal(t, "https://example.com/docs", links[0].URL)
	assert.Equal(t, "Docs", links[0].Title)
	assert.False(t, links[0].CreatedAt.IsZero())
}

type failingRepo struct {
	*memory.Repository
}

func (failingRepo) Create(context.Context, *domain.Link) error {
	return errors.New("disk full")
}

func TestImportReportsStorageFailures(t *testing.T) {
	repo := failingRepo{memory.NewRepository()}
	in := `[{"alias":"docs","url":"https://example.com/docs"},{"alias":"wiki","url":"https://example.com/wiki"}]`

	n, err := doImport(context.Background(), repo, strings.NewReader(in), zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, err.Error(), "2 of 2 links failed")
	assert.Contains(t, err.Error(), "disk full")
}

func TestHashPassword(t *testing.T) {
	hash, err := hashPassword(strings.NewReader("s3cret\n"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = hashPassword(strings.NewReader("\n"), bcrypt.MinCost)
	assert.Error(t, err)
}
