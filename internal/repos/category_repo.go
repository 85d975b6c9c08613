package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"draftshop/internal/domain"
	applog "draftshop/internal/log"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

type categoryRow struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (c categoryRow) category() (domain.Category, error) {
	created, err := parseStamp(c.CreatedAt)
	if err != nil {
		return domain.Category{}, err
	}
	updated, err := parseStamp(c.UpdatedAt)
	if err != nil {
		return domain.Category{}, err
	}
	return domain.Category{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: created, UpdatedAt: updated}, nil
}

func getCategory(ctx context.Context, db *sqlx.DB, id int64) (*domain.Category, error) {
	var row categoryRow
	err := db.GetContext(ctx, &row, db.Rebind(`
	  SELECT id, name, description, created_at, updated_at
	  FROM category
	  WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		applog.Store("store.category.get.fail", err, map[string]any{"id": id})
		return nil, fmt.Errorf("category: %w", domain.ErrPersistence)
	}
	c, err := row.category()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return getCategory(ctx, r.db, id)
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, `
	  SELECT id, name, description, created_at, updated_at
	  FROM category
	  ORDER BY name
	`); err != nil {
		applog.Store("store.category.list.fail", err, nil)
		return nil, fmt.Errorf("category list: %w", domain.ErrPersistence)
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		c, err := row.category()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Create inserts a category and sets its generated id.
func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowStamp()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
	  INSERT INTO category(name, description, created_at, updated_at)
	  VALUES (?, ?, ?, ?)
	  RETURNING id
	`), c.Name, c.Description, formatStamp(c.CreatedAt), formatStamp(c.UpdatedAt)).Scan(&id)
	if err != nil {
		applog.Store("store.category.create.fail", err, map[string]any{"name": c.Name})
		return fmt.Errorf("category create: %w", domain.ErrPersistence)
	}
	c.ID = id
	return nil
}
