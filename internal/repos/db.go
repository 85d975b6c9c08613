package repos

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	applog "draftshop/internal/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB connects, creates missing tables and optionally seeds demo rows.
// The caller owns the returned handle.
func OpenDB(driver, dsn string, seed bool) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite allows one writer; a single connection also keeps
		// in-memory databases from splitting across the pool.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if seed {
		if err := seedIfEmpty(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// EnsureSchema creates the catalog tables when they do not exist yet.
func EnsureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

const sqliteSchema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS category(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS product(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  photos TEXT NOT NULL DEFAULT '[]',
  price INTEGER NOT NULL CHECK (price >= 0),
  description TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL CHECK (quantity >= 0),
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  category_id INTEGER NULL REFERENCES category(id)
);

CREATE TABLE IF NOT EXISTS clothing(
  product_id INTEGER PRIMARY KEY REFERENCES product(id) ON DELETE CASCADE,
  size TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT '',
  material_fee INTEGER NOT NULL DEFAULT 0 CHECK (material_fee >= 0)
);

CREATE TABLE IF NOT EXISTS electronic(
  product_id INTEGER PRIMARY KEY REFERENCES product(id) ON DELETE CASCADE,
  brand TEXT NOT NULL DEFAULT '',
  waranty_fee INTEGER NOT NULL DEFAULT 0 CHECK (waranty_fee >= 0)
)
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS category(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS product(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  photos TEXT NOT NULL DEFAULT '[]',
  price BIGINT NOT NULL CHECK (price >= 0),
  description TEXT NOT NULL DEFAULT '',
  quantity BIGINT NOT NULL CHECK (quantity >= 0),
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  category_id BIGINT NULL REFERENCES category(id)
);

CREATE TABLE IF NOT EXISTS clothing(
  product_id BIGINT PRIMARY KEY REFERENCES product(id) ON DELETE CASCADE,
  size TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT '',
  material_fee BIGINT NOT NULL DEFAULT 0 CHECK (material_fee >= 0)
);

CREATE TABLE IF NOT EXISTS electronic(
  product_id BIGINT PRIMARY KEY REFERENCES product(id) ON DELETE CASCADE,
  brand TEXT NOT NULL DEFAULT '',
  waranty_fee BIGINT NOT NULL DEFAULT 0 CHECK (waranty_fee >= 0)
)
`

// seedIfEmpty inserts a couple of demo categories and items on first start.
func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM category`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Logger().Info("[seed] inserting demo categories and products")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stamp := formatStamp(nowStamp())
	var clothesID, gadgetsID int64
	insertCat := db.Rebind(`INSERT INTO category(name, description, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id`)
	if err := tx.QueryRowx(insertCat, "Clothes", "Shirts, jackets and more", stamp, stamp).Scan(&clothesID); err != nil {
		return err
	}
	if err := tx.QueryRowx(insertCat, "Gadgets", "Small electronics", stamp, stamp).Scan(&gadgetsID); err != nil {
		return err
	}

	insertProduct := db.Rebind(`
		INSERT INTO product(name, photos, price, description, quantity, created_at, updated_at, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	var shirtID, radioID int64
	if err := tx.QueryRowx(insertProduct, "Linen shirt", `["products/linen-shirt/main.jpg"]`, 3900,
		"Light summer shirt", 25, stamp, stamp, clothesID).Scan(&shirtID); err != nil {
		return err
	}
	if err := tx.QueryRowx(insertProduct, "Pocket radio", `["products/pocket-radio/main.jpg"]`, 5900,
		"AM/FM transistor radio", 8, stamp, stamp, gadgetsID).Scan(&radioID); err != nil {
		return err
	}

	if _, err := tx.Exec(db.Rebind(`INSERT INTO clothing(product_id, size, color, type, material_fee) VALUES (?, ?, ?, ?, ?)`),
		shirtID, "M", "White", "shirt", 400); err != nil {
		return err
	}
	if _, err := tx.Exec(db.Rebind(`INSERT INTO electronic(product_id, brand, waranty_fee) VALUES (?, ?, ?)`),
		radioID, "Zenith", 1200); err != nil {
		return err
	}
	return tx.Commit()
}
