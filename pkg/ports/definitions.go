package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
)

// LinkRepository defines storage operations for links
type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	GetByAlias(ctx context.Context, alias string) (*domain.Link, error)
	GetByID(ctx context.Context, id int64) (*domain.Link, error)
	Update(ctx context.Context, link *domain.Link) error
	Delete(ctx context.Context, id int64) error
	ListByTitle(ctx context.Context) ([]domain.Link, error)
	ListRecent(ctx context.Context) ([]domain.Link, error)
	Dump(ctx context.Context) ([]domain.Link, error) // For migration
	Ping(ctx context.Context) error
}

// LinkService defines the business logic operations
type LinkService interface {
	Create(ctx context.Context, in domain.LinkInput) (*domain.Link, error)
	Update(ctx context.Context, id int64, in domain.LinkInput) (*domain.Link, error)
	Delete(ctx context.Context, id int64) error
	Resolve(ctx context.Context, alias string) (*domain.Link, error)
	ListPublic(ctx context.Context, query string) ([]domain.Link, error)
	ListRecent(ctx context.Context) ([]domain.Link, error)
}

// AuthService issues and verifies admin sessions
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, time.Time, error)
	IssueToken(email string) (string, time.Time, error)
	Verify(token string) (*domain.Session, error)
	EmailAllowed(email string) bool
}
