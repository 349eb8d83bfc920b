package store

import (
	"context"

	"github.com/jurko22/xml-import/internal/models"

	"github.com/shopspring/decimal"
)

// Single-table schema operations. The legacy shape keeps product identity and
// variant data in one products table keyed by (id, size).

// ListLegacyProducts retrieves all legacy rows
func (s *Store) ListLegacyProducts(ctx context.Context) ([]models.LegacyProduct, error) {
	var products []models.LegacyProduct
	err := s.db.SelectContext(ctx, &products,
		"SELECT id, size, name, price, status, image_url FROM products ORDER BY id, size")
	return products, err
}

// InsertLegacyProduct inserts a new legacy row
func (s *Store) InsertLegacyProduct(ctx context.Context, p *models.LegacyProduct) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, size, name, price, status, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Size, p.Name, p.Price, p.Status, p.ImageURL)
	return err
}

// UpdateLegacyProduct updates price and status for one legacy row, matched by
// the composite key
func (s *Store) UpdateLegacyProduct(ctx context.Context, key models.VariantKey, price decimal.Decimal, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET price = $1, status = $2
		WHERE id = $3 AND size = $4`,
		price, status, key.ProductID, key.Size)
	return err
}
