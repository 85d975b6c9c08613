package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"draftshop/internal/domain"
	applog "draftshop/internal/log"
)

// ProductRepo is the only writer of product rows. A base row and its
// extension row are always written in one transaction; readers join the two.
type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const baseColumns = `p.id, p.name, p.photos, p.price, p.description, p.quantity, p.created_at, p.updated_at, p.category_id`

const insertProductSQL = `
	INSERT INTO product(name, photos, price, description, quantity, created_at, updated_at, category_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`

const updateProductSQL = `
	UPDATE product SET
	  name = ?, photos = ?, price = ?, description = ?, quantity = ?,
	  created_at = ?, updated_at = ?, category_id = ?
	WHERE id = ?`

// baseRow is the raw shape of a product row before hydration.
type baseRow struct {
	ID          int64
	Name        string
	Photos      string
	Price       int64
	Description string
	Quantity    int64
	CreatedAt   string
	UpdatedAt   string
	CategoryID  sql.NullInt64
}

func (b *baseRow) targets() []any {
	return []any{&b.ID, &b.Name, &b.Photos, &b.Price, &b.Description, &b.Quantity,
		&b.CreatedAt, &b.UpdatedAt, &b.CategoryID}
}

func (b *baseRow) product() (domain.Product, error) {
	photos, err := decodePhotos(b.Photos)
	if err != nil {
		return domain.Product{}, err
	}
	created, err := parseStamp(b.CreatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	updated, err := parseStamp(b.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:          b.ID,
		Name:        b.Name,
		Photos:      photos,
		Description: b.Description,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
	if b.CategoryID.Valid {
		p.CategoryID = b.CategoryID.Int64
	}
	if err := p.SetPrice(b.Price); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", domain.ErrHydration, err)
	}
	if err := p.SetQuantity(b.Quantity); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", domain.ErrHydration, err)
	}
	return p, nil
}

func (r *ProductRepo) joinedSelect(vs VariantSpec) string {
	return fmt.Sprintf(`SELECT %s, %s FROM product p JOIN %s e ON %s`,
		baseColumns, vs.selectColumns("e"), vs.Table, vs.JoinOn("p", "e"))
}

// FindOneByID loads one item of the given variant. It returns
// domain.ErrNotFound when either the base or the extension row is missing.
func (r *ProductRepo) FindOneByID(ctx context.Context, v domain.Variant, id int64) (*domain.Item, error) {
	vs, err := Resolve(v)
	if err != nil {
		return nil, err
	}
	q := r.db.Rebind(r.joinedSelect(vs) + ` WHERE p.id = ?`)

	var b baseRow
	attrs := vs.New()
	err = r.db.QueryRowxContext(ctx, q, id).Scan(append(b.targets(), attrs.Targets()...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", v, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, r.fail("find", err, map[string]any{"variant": v, "id": id})
	}
	p, err := b.product()
	if err != nil {
		return nil, err
	}
	return &domain.Item{Product: p, Attrs: attrs}, nil
}

// FindAll returns every item of the variant in storage order.
func (r *ProductRepo) FindAll(ctx context.Context, v domain.Variant) ([]domain.Item, error) {
	vs, err := Resolve(v)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryxContext(ctx, r.joinedSelect(vs))
	if err != nil {
		return nil, r.fail("find_all", err, map[string]any{"variant": v})
	}
	defer rows.Close()

	out := []domain.Item{}
	for rows.Next() {
		var b baseRow
		attrs := vs.New()
		if err := rows.Scan(append(b.targets(), attrs.Targets()...)...); err != nil {
			return nil, r.fail("find_all.scan", err, map[string]any{"variant": v})
		}
		p, err := b.product()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Item{Product: p, Attrs: attrs})
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail("find_all", err, map[string]any{"variant": v})
	}
	return out, nil
}

// Create inserts the base row and the extension row as one unit. On success
// the item's ID is set to the generated identity; on failure nothing is kept
// and the item is left untouched.
func (r *ProductRepo) Create(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	if err := it.Validate(); err != nil {
		return nil, err
	}
	vs, err := Resolve(it.Variant())
	if err != nil {
		return nil, err
	}
	photos, err := encodePhotos(it.Photos)
	if err != nil {
		return nil, fmt.Errorf("%w: photos: %v", domain.ErrValidation, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, r.fail("create.begin", err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.QueryRowxContext(ctx, r.db.Rebind(insertProductSQL),
		it.Name, photos, it.Price(), it.Description, it.Quantity(),
		formatStamp(it.CreatedAt), formatStamp(it.UpdatedAt), nullID(it.CategoryID),
	).Scan(&id); err != nil {
		return nil, r.fail("create.base", err, map[string]any{"variant": vs.Variant})
	}

	args := append([]any{id}, it.Attrs.Values()...)
	if _, err := tx.ExecContext(ctx, r.db.Rebind(vs.insertSQL()), args...); err != nil {
		return nil, r.fail("create.extension", err, map[string]any{"variant": vs.Variant, "id": id})
	}
	if err := tx.Commit(); err != nil {
		return nil, r.fail("create.commit", err, map[string]any{"variant": vs.Variant, "id": id})
	}

	it.ID = id
	return it, nil
}

// Update rewrites both rows of an already persisted item. An item without an
// id is rejected before any transaction is opened.
func (r *ProductRepo) Update(ctx context.Context, it *domain.Item) error {
	if it.ID == 0 {
		return domain.ErrInvalidState
	}
	if err := it.Validate(); err != nil {
		return err
	}
	vs, err := Resolve(it.Variant())
	if err != nil {
		return err
	}
	photos, err := encodePhotos(it.Photos)
	if err != nil {
		return fmt.Errorf("%w: photos: %v", domain.ErrValidation, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return r.fail("update.begin", err, nil)
	}
	defer func() { _ = tx.Rollback() }()

	fields := map[string]any{"variant": vs.Variant, "id": it.ID}
	res, err := tx.ExecContext(ctx, r.db.Rebind(updateProductSQL),
		it.Name, photos, it.Price(), it.Description, it.Quantity(),
		formatStamp(it.CreatedAt), formatStamp(it.UpdatedAt), nullID(it.CategoryID), it.ID)
	if err != nil {
		return r.fail("update.base", err, fields)
	}
	if n, err := res.RowsAffected(); err != nil {
		return r.fail("update.base", err, fields)
	} else if n != 1 {
		return fmt.Errorf("%s %d: %w", vs.Variant, it.ID, domain.ErrNotFound)
	}

	args := append(it.Attrs.Values(), it.ID)
	res, err = tx.ExecContext(ctx, r.db.Rebind(vs.updateSQL()), args...)
	if err != nil {
		return r.fail("update.extension", err, fields)
	}
	if n, err := res.RowsAffected(); err != nil {
		return r.fail("update.extension", err, fields)
	} else if n != 1 {
		return fmt.Errorf("%s %d: %w", vs.Variant, it.ID, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return r.fail("update.commit", err, fields)
	}
	return nil
}

// GetCategory looks up the category a product refers to.
func (r *ProductRepo) GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	return getCategory(ctx, r.db, categoryID)
}

// FindProduct reads only the base row, whatever the variant.
func (r *ProductRepo) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var b baseRow
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`SELECT `+baseColumns+` FROM product p WHERE p.id = ?`), id).
		Scan(b.targets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, r.fail("find_product", err, map[string]any{"id": id})
	}
	p, err := b.product()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByCategory returns the base rows filed under a category, each tagged
// with the variant that owns its extension row.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Listing, error) {
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(listByCategorySQL()), categoryID)
	if err != nil {
		return nil, r.fail("list_by_category", err, map[string]any{"category_id": categoryID})
	}
	defer rows.Close()

	out := []domain.Listing{}
	for rows.Next() {
		var b baseRow
		var v string
		if err := rows.Scan(append(b.targets(), &v)...); err != nil {
			return nil, r.fail("list_by_category.scan", err, nil)
		}
		p, err := b.product()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Listing{Product: p, Variant: domain.Variant(v)})
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail("list_by_category", err, nil)
	}
	return out, nil
}

func listByCategorySQL() string {
	return `SELECT ` + baseColumns + `, ` + variantCase("p") + ` AS variant
		FROM product p WHERE p.category_id = ? ORDER BY p.id`
}

// variantCase names the extension table holding a row for each product.
func variantCase(alias string) string {
	tags := Variants()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, v := range tags {
		vs := variants[v]
		fmt.Fprintf(&sb, " WHEN EXISTS (SELECT 1 FROM %s x WHERE %s) THEN '%s'",
			vs.Table, vs.JoinOn(alias, "x"), vs.Variant)
	}
	sb.WriteString(" ELSE '' END")
	return sb.String()
}

// fail logs the driver error and hands back the component's own failure.
func (r *ProductRepo) fail(action string, err error, fields map[string]any) error {
	applog.Store("store.product."+action+".fail", err, fields)
	return fmt.Errorf("%s: %w", action, domain.ErrPersistence)
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
