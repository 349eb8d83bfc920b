package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jurko22/xml-import/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductIDs retrieves the set of known product IDs
func (s *Store) ListProductIDs(ctx context.Context) (map[int64]struct{}, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, "SELECT id FROM products ORDER BY id"); err != nil {
		return nil, err
	}

	known := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known, nil
}

// InsertProduct inserts a new product row
func (s *Store) InsertProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, image_url)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	return s.db.GetContext(ctx, &product.CreatedAt, query,
		product.ID, product.Name, product.ImageURL)
}

// ListProductSizes retrieves all variant rows restricted to the columns the
// reconciler compares against
func (s *Store) ListProductSizes(ctx context.Context) ([]models.ProductSize, error) {
	var sizes []models.ProductSize
	err := s.db.SelectContext(ctx, &sizes,
		"SELECT product_id, size, price, status, updated_at FROM product_sizes ORDER BY product_id, size")
	return sizes, err
}

// InsertProductSize inserts a new variant row. The original_price column is
// seeded from the first-seen price and is not touched again by updates.
func (s *Store) InsertProductSize(ctx context.Context, size *models.ProductSize) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_sizes (product_id, size, price, status, original_price)
		VALUES ($1, $2, $3, $4, $3)`,
		size.ProductID, size.Size, size.Price, size.Status)
	return err
}

// UpdateProductSize updates price and status for one variant, matched by the
// composite key
func (s *Store) UpdateProductSize(ctx context.Context, key models.VariantKey, price decimal.Decimal, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE product_sizes
		SET price = $1, status = $2, updated_at = NOW()
		WHERE product_id = $3 AND size = $4`,
		price, status, key.ProductID, key.Size)
	return err
}
