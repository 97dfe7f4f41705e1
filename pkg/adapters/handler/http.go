package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

type LinkHandler struct {
	service ports.LinkService
	metrics *Metrics
	baseURL string
}

// NewLinkHandler builds the link endpoints. An empty baseURL is derived per
// request from the forwarded or Host header.
func NewLinkHandler(service ports.LinkService, metrics *Metrics, baseURL string) *LinkHandler {
	return &LinkHandler{service: service, metrics: metrics, baseURL: strings.TrimRight(baseURL, "/")}
}

// LinkRequest is the body of create and update calls.
type LinkRequest struct {
	Alias string `json:"alias" validate:"required,min=2,max=48,alias,notreserved"`
	URL   string `json:"url" validate:"required,http_url"`
	Title string `json:"title" validate:"omitempty,max=80"`
}

func (req *LinkRequest) Normalize() {
	req.Alias = strings.ToLower(strings.TrimSpace(req.Alias))
	req.URL = strings.TrimSpace(req.URL)
	req.Title = strings.TrimSpace(req.Title)
}

func (req *LinkRequest) input() domain.LinkInput {
	return domain.LinkInput{Alias: req.Alias, URL: req.URL, Title: req.Title}
}

type linkResponse struct {
	Link *domain.Link `json:"link"`
}

type linksResponse struct {
	Links []domain.Link `json:"links"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// List returns every link, newest first
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.ListRecent(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, linksResponse{Links: nonNil(links)})
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, linkResponse{Link: link})
}

func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req LinkRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.service.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, linkResponse{Link: link})
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// Redirect sends the caller to the destination registered under {alias}.
func (h *LinkHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.Resolve(r.Context(), r.PathValue("alias"))
	if err != nil {
		h.metrics.redirect(false)
		writeError(w, r, err)
		return
	}

	h.metrics.redirect(true)
	http.Redirect(w, r, link.URL, http.StatusTemporaryRedirect)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, newHTTPError(http.StatusBadRequest, "Invalid link id",
			FieldError{Field: "id", Error: "must be a positive integer"})
	}
	return id, nil
}

func nonNil(links []domain.Link) []domain.Link {
	if links == nil {
		return []domain.Link{}
	}
	return links
}
