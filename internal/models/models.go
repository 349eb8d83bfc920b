package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability labels. The feed carries free-text labels; anything the
// pipelines synthesize themselves uses one of these.
const (
	StatusUnknown        = "unknown"
	StatusInStock        = "in stock"
	StatusInStockExpress = "in stock express"
)

// SizeUnknown is the sentinel size label for variants without parsable size
// data.
const SizeUnknown = "unknown"

// Product represents a catalog product as seen in the feed.
type Product struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ImageURL  *string   `db:"image_url" json:"image_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProductSize is one sellable variant of a product, keyed by (product_id, size).
// OriginalPrice captures the first price ever seen for the variant and is
// never overwritten afterwards.
type ProductSize struct {
	ProductID     int64               `db:"product_id" json:"product_id"`
	Size          string              `db:"size" json:"size"`
	Price         decimal.Decimal     `db:"price" json:"price"`
	Status        string              `db:"status" json:"status"`
	OriginalPrice decimal.NullDecimal `db:"original_price" json:"original_price,omitempty"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`
}

// LegacyProduct is the single-table schema row: product identity and variant
// data flattened into one record keyed by (id, size).
type LegacyProduct struct {
	ID       int64           `db:"id" json:"id"`
	Size     string          `db:"size" json:"size"`
	Name     string          `db:"name" json:"name"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Status   string          `db:"status" json:"status"`
	ImageURL *string         `db:"image_url" json:"image_url,omitempty"`
}

// Order is one ingested mailbox order. Immutable after insert.
type Order struct {
	OrderID      string          `db:"order_id" json:"order_id"`
	ProductName  string          `db:"product_name" json:"product_name"`
	Size         string          `db:"size" json:"size"`
	Price        decimal.Decimal `db:"price" json:"price"`
	EmailSubject string          `db:"email_subject" json:"email_subject"`
	EmailFrom    string          `db:"email_from" json:"email_from"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// UserOverride is a user-supplied price for one variant, read from the
// user_products table. Written elsewhere; read-only here.
type UserOverride struct {
	ProductID int64           `db:"product_id" json:"product_id"`
	Size      string          `db:"size" json:"size"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

// PriceViewRow is one row of the product_price_view derived view, the
// authoritative price/status source for feed regeneration.
type PriceViewRow struct {
	ProductID int64           `db:"product_id" json:"product_id"`
	Size      string          `db:"size" json:"size"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Status    string          `db:"status" json:"status"`
}

// FeedVariant is one normalized feed tuple: a product variant flattened out
// of the document's nested item/variant structure.
type FeedVariant struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
}

// Key returns the composite identity used for reconciliation lookups.
func (v FeedVariant) Key() VariantKey {
	return VariantKey{ProductID: v.ProductID, Size: v.Size}
}

// VariantKey uniquely identifies a variant within the store.
type VariantKey struct {
	ProductID int64
	Size      string
}
