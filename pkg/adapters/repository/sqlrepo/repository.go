package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

type Repository struct {
	db *sqlx.DB
}

type linkRow struct {
	ID        int64          `db:"id"`
	Alias     string         `db:"alias"`
	URL       string         `db:"url"`
	Title     sql.NullString `db:"title"`
	CreatedAt timestamp      `db:"created_at"`
}

func (r linkRow) toDomain() domain.Link {
	return domain.Link{
		ID:        r.ID,
		Alias:     r.Alias,
		URL:       r.URL,
		Title:     r.Title.String,
		CreatedAt: r.CreatedAt.Time.UTC(),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

const linkColumns = `id, alias, url, title, created_at`

// NewRepository opens dbURL with the driver matching its scheme and makes sure
// the links table exists.
func NewRepository(ctx context.Context, dbURL string) (*Repository, error) {
	d := dialectFor(dbURL)

	db, err := sqlx.Open(d.driver, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(ctx, db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func migrate(ctx context.Context, db *sqlx.DB, d dialect) error {
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, link *domain.Link) error {
	query := r.db.Rebind(`INSERT INTO links (alias, url, title, created_at)
			  VALUES (?, ?, ?, ?) RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query, link.Alias, link.URL, nullString(link.Title), link.CreatedAt).Scan(&link.ID)
	if isUniqueViolation(err) {
		return domain.ErrAliasTaken
	}
	return err
}

func (r *Repository) GetByAlias(ctx context.Context, alias string) (*domain.Link, error) {
	return r.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE alias = ?`, alias)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Link, error) {
	return r.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, id)
}

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Link, error) {
	var row linkRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}

	link := row.toDomain()
	return &link, nil
}

func (r *Repository) Update(ctx context.Context, link *domain.Link) error {
	query := r.db.Rebind(`UPDATE links SET alias = ?, url = ?, title = ? WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, link.Alias, link.URL, nullString(link.Title), link.ID)
	if isUniqueViolation(err) {
		return domain.ErrAliasTaken
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM links WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// ListByTitle orders titled links alphabetically ignoring case and puts
// untitled ones last.
func (r *Repository) ListByTitle(ctx context.Context) ([]domain.Link, error) {
	return r.list(ctx, `SELECT `+linkColumns+` FROM links
		ORDER BY CASE WHEN title IS NULL THEN 1 ELSE 0 END, LOWER(title) ASC, title ASC, alias ASC`)
}

func (r *Repository) ListRecent(ctx context.Context) ([]domain.Link, error) {
	return r.list(ctx, `SELECT `+linkColumns+` FROM links ORDER BY created_at DESC, id DESC`)
}

func (r *Repository) Dump(ctx context.Context) ([]domain.Link, error) {
	return r.list(ctx, `SELECT `+linkColumns+` FROM links ORDER BY id ASC`)
}

func (r *Repository) list(ctx context.Context, query string) ([]domain.Link, error) {
	var rows []linkRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	links := make([]domain.Link, 0, len(rows))
	for _, row := range rows {
		links = append(links, row.toDomain())
	}
	return links, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Ensure interface compliance
var _ ports.LinkRepository = (*Repository)(nil)
