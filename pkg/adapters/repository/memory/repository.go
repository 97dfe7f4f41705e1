// Package memory provides a map-backed link repository for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

type Repository struct {
	mu     sync.RWMutex
	nextID int64
	links  map[int64]domain.Link
}

func NewRepository() *Repository {
	return &Repository{links: make(map[int64]domain.Link)}
}

func (r *Repository) Create(_ context.Context, link *domain.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.aliasTaken(link.Alias, 0) {
		return domain.ErrAliasTaken
	}
	r.nextID++
	link.ID = r.nextID
	r.links[link.ID] = *link
	return nil
}

func (r *Repository) aliasTaken(alias string, except int64) bool {
	for id, l := range r.links {
		if l.Alias == alias && id != except {
			return true
		}
	}
	return false
}

func (r *Repository) GetByAlias(_ context.Context, alias string) (*domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.links {
		if l.Alias == alias {
			return &l, nil
		}
	}
	return nil, domain.ErrLinkNotFound
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.links[id]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	return &l, nil
}

func (r *Repository) Update(_ context.Context, link *domain.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.links[link.ID]
	if !ok {
		return domain.ErrLinkNotFound
	}
	if r.aliasTaken(link.Alias, link.ID) {
		return domain.ErrAliasTaken
	}
	old.Alias, old.URL, old.Title = link.Alias, link.URL, link.Title
	r.links[link.ID] = old
	return nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[id]; !ok {
		return domain.ErrLinkNotFound
	}
	delete(r.links, id)
	return nil
}

func (r *Repository) ListByTitle(_ context.Context) ([]domain.Link, error) {
	return r.sorted(func(a, b domain.Link) bool {
		if (a.Title == "") != (b.Title == "") {
			return a.Title != ""
		}
		if la, lb := strings.ToLower(a.Title), strings.ToLower(b.Title); la != lb {
			return la < lb
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Alias < b.Alias
	}), nil
}

func (r *Repository) ListRecent(_ context.Context) ([]domain.Link, error) {
	return r.sorted(func(a, b domain.Link) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}), nil
}

func (r *Repository) Dump(_ context.Context) ([]domain.Link, error) {
	return r.sorted(func(a, b domain.Link) bool { return a.ID < b.ID }), nil
}

func (r *Repository) sorted(less func(a, b domain.Link) bool) []domain.Link {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Link, 0, len(r.links))
	for _, l := range r.links {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *Repository) Ping(context.Context) error {
	return nil
}

var _ ports.LinkRepository = (*Repository)(nil)
