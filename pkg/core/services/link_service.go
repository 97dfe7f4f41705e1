package services

import (
	"context"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

type LinkService struct {
	repo ports.LinkRepository
	now  func() time.Time
}

func NewLinkService(repo ports.LinkRepository) *LinkService {
	return &LinkService{repo: repo, now: time.Now}
}

// NormalizeAlias trims and lowercases an alias the way it is stored.
func NormalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

func (s *LinkService) Create(ctx context.Context, in domain.LinkInput) (*domain.Link, error) {
	link := &domain.Link{
		Alias:     NormalizeAlias(in.Alias),
		URL:       strings.TrimSpace(in.URL),
		Title:     strings.TrimSpace(in.Title),
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *LinkService) Update(ctx context.Context, id int64, in domain.LinkInput) (*domain.Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	link.Alias = NormalizeAlias(in.Alias)
	link.URL = strings.TrimSpace(in.URL)
	link.Title = strings.TrimSpace(in.Title)

	if err := s.repo.Update(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *LinkService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *LinkService) Resolve(ctx context.Context, alias string) (*domain.Link, error) {
	alias = NormalizeAlias(alias)
	if alias == "" {
		return nil, domain.ErrLinkNotFound
	}
	return s.repo.GetByAlias(ctx, alias)
}

// ListPublic returns links in title order, keeping only those whose alias, url
// or title contain query (case-insensitive).
func (s *LinkService) ListPublic(ctx context.Context, query string) ([]domain.Link, error) {
	links, err := s.repo.ListByTitle(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return links, nil
	}

	filtered := make([]domain.Link, 0, len(links))
	for _, l := range links {
		haystack := strings.ToLower(l.Alias + " " + l.URL + " " + l.Title)
		if strings.Contains(haystack, query) {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

func (s *LinkService) ListRecent(ctx context.Context) ([]domain.Link, error) {
	return s.repo.ListRecent(ctx)
}

var _ ports.LinkService = (*LinkService)(nil)
