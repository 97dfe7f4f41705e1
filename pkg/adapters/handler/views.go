package handler

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
)

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Links</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
input[type=search] { width: 100%; padding: .5rem; font-size: 1rem; }
table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
td { padding: .4rem .2rem; border-bottom: 1px solid #eee; vertical-align: top; }
.alias { font-family: ui-monospace, monospace; white-space: nowrap; }
.url { color: #666; word-break: break-all; }
</style>
</head>
<body>
<h1>Links</h1>
<form method="get" action="/">
<input type="search" name="q" value="{{.Query}}" placeholder="Search links" autofocus>
</form>
{{if .Links}}
<table>
{{range .Links}}
<tr>
<td class="alias"><a href="/{{.Alias}}">{{$.BaseURL}}/{{.Alias}}</a></td>
<td>{{if .Title}}{{.Title}}{{else}}<em>untitled</em>{{end}}<div class="url">{{.URL}}</div></td>
</tr>
{{end}}
</table>
{{else}}
<p>No links{{if .Query}} match &ldquo;{{.Query}}&rdquo;{{end}}.</p>
{{end}}
</body>
</html>
`))

type homeView struct {
	BaseURL string
	Query   string
	Links   []domain.Link
}

// Home renders the public listing, or JSON when the client asks for it.
func (h *LinkHandler) Home(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	links, err := h.service.ListPublic(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, linksResponse{Links: nonNil(links)})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	view := homeView{BaseURL: h.publicBaseURL(r), Query: query, Links: links}
	if err := homeTemplate.Execute(w, view); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rendering home page")
	}
}

func (h *LinkHandler) publicBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}

	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	return scheme + "://" + host
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
