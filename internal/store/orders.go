package store

import (
	"context"

	"github.com/jurko22/xml-import/internal/models"
)

// CreateOrder inserts a new order extracted from the mailbox
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (order_id, product_name, size, price, email_subject, email_from, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.OrderID, order.ProductName, order.Size, order.Price,
		order.EmailSubject, order.EmailFrom, order.CreatedAt)
	return err
}

// ListPriceView retrieves the derived price view used by feed regeneration
func (s *Store) ListPriceView(ctx context.Context) ([]models.PriceViewRow, error) {
	var rows []models.PriceViewRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT product_id, size, price, status FROM product_price_view ORDER BY product_id, size")
	return rows, err
}

// ListUserOverrides retrieves the user-supplied price overrides. The
// user_products table is written by another system; this side only reads it.
func (s *Store) ListUserOverrides(ctx context.Context) ([]models.UserOverride, error) {
	var overrides []models.UserOverride
	err := s.db.SelectContext(ctx, &overrides,
		"SELECT product_id, size, price FROM user_products ORDER BY product_id, size")
	return overrides, err
}
