package reconcile

import (
	"context"

	"github.com/jurko22/xml-import/internal/models"
	"github.com/jurko22/xml-import/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the row-level access the reconciler needs. *store.Store satisfies
// it for both schema shapes.
type Store interface {
	ListProductIDs(ctx context.Context) (map[int64]struct{}, error)
	ListProductSizes(ctx context.Context) ([]models.ProductSize, error)
	InsertProduct(ctx context.Context, product *models.Product) error
	InsertProductSize(ctx context.Context, size *models.ProductSize) error
	UpdateProductSize(ctx context.Context, key models.VariantKey, price decimal.Decimal, status string) error

	ListLegacyProducts(ctx context.Context) ([]models.LegacyProduct, error)
	InsertLegacyProduct(ctx context.Context, p *models.LegacyProduct) error
	UpdateLegacyProduct(ctx context.Context, key models.VariantKey, price decimal.Decimal, status string) error
}

// Config selects the schema shape the reconciler writes to.
type Config struct {
	// SingleTable targets the legacy flat products table instead of the
	// products + product_sizes pair.
	SingleTable bool
}

// Summary is the accounting for one reconciliation pass.
type Summary struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
	Rejected  int `json:"rejected"`
}

// Reconciler converges store state to match a normalized feed with minimal
// writes: insert rows the store lacks, update price/status where they differ,
// touch nothing that already matches.
type Reconciler struct {
	store  Store
	cfg    Config
	logger *zap.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(store Store, cfg Config) *Reconciler {
	return &Reconciler{
		store:  store,
		cfg:    cfg,
		logger: util.GetLogger(),
	}
}

// Reconcile applies one normalized feed against the store. A snapshot read
// failure aborts the run before any writes; per-tuple write failures are
// logged and skipped. Feed order determines write order.
func (r *Reconciler) Reconcile(ctx context.Context, variants []models.FeedVariant) (Summary, error) {
	ctx, span := util.StartSpan(ctx, "Reconciler.Reconcile")
	defer span.End()

	if r.cfg.SingleTable {
		return r.reconcileLegacy(ctx, variants)
	}
	return r.reconcileSizes(ctx, variants)
}

func (r *Reconciler) reconcileSizes(ctx context.Context, variants []models.FeedVariant) (Summary, error) {
	var summary Summary

	knownProducts, err := r.store.ListProductIDs(ctx)
	if err != nil {
		return summary, err
	}

	snapshot, err := r.store.ListProductSizes(ctx)
	if err != nil {
		return summary, err
	}

	existing := make(map[models.VariantKey]models.ProductSize, len(snapshot))
	for _, row := range snapshot {
		existing[models.VariantKey{ProductID: row.ProductID, Size: row.Size}] = row
	}

	for _, v := range variants {
		row, ok := existing[v.Key()]
		if !ok {
			if _, known := knownProducts[v.ProductID]; !known {
				product := &models.Product{ID: v.ProductID, Name: v.Name, ImageURL: v.ImageURL}
				if err := r.store.InsertProduct(ctx, product); err != nil {
					r.logger.Error("Failed to insert product",
						zap.Int64("product_id", v.ProductID),
						zap.Error(err))
					util.FeedRowsFailedTotal.WithLabelValues("insert_product").Inc()
					summary.Failed++
					continue
				}
				knownProducts[v.ProductID] = struct{}{}
			}

			size := &models.ProductSize{
				ProductID: v.ProductID,
				Size:      v.Size,
				Price:     v.Price,
				Status:    v.Status,
			}
			if err := r.store.InsertProductSize(ctx, size); err != nil {
				r.logger.Error("Failed to insert variant",
					zap.Int64("product_id", v.ProductID),
					zap.String("size", v.Size),
					zap.Error(err))
				util.FeedRowsFailedTotal.WithLabelValues("insert_size").Inc()
				summary.Failed++
				continue
			}

			r.logger.Info("Inserted variant",
				zap.Int64("product_id", v.ProductID),
				zap.String("size", v.Size))
			util.FeedRowsInsertedTotal.Inc()
			summary.Inserted++
			continue
		}

		if row.Price.Equal(v.Price) && row.Status == v.Status {
			util.FeedRowsUnchangedTotal.Inc()
			summary.Unchanged++
			continue
		}

		if err := r.store.UpdateProductSize(ctx, v.Key(), v.Price, v.Status); err != nil {
			r.logger.Error("Failed to update variant",
				zap.Int64("product_id", v.ProductID),
				zap.String("size", v.Size),
				zap.Error(err))
			util.FeedRowsFailedTotal.WithLabelValues("update_size").Inc()
			summary.Failed++
			continue
		}

		r.logger.Info("Updated variant",
			zap.Int64("product_id", v.ProductID),
			zap.String("size", v.Size),
			zap.String("price", v.Price.String()),
			zap.String("status", v.Status))
		util.FeedRowsUpdatedTotal.Inc()
		summary.Updated++
	}

	return summary, nil
}

func (r *Reconciler) reconcileLegacy(ctx context.Context, variants []models.FeedVariant) (Summary, error) {
	var summary Summary

	snapshot, err := r.store.ListLegacyProducts(ctx)
	if err != nil {
		return summary, err
	}

	existing := make(map[models.VariantKey]models.LegacyProduct, len(snapshot))
	for _, row := range snapshot {
		existing[models.VariantKey{ProductID: row.ID, Size: row.Size}] = row
	}

	for _, v := range variants {
		row, ok := existing[v.Key()]
		if !ok {
			p := &models.LegacyProduct{
				ID:       v.ProductID,
				Size:     v.Size,
				Name:     v.Name,
				Price:    v.Price,
				Status:   v.Status,
				ImageURL: v.ImageURL,
			}
			if err := r.store.InsertLegacyProduct(ctx, p); err != nil {
				r.logger.Error("Failed to insert product row",
					zap.Int64("product_id", v.ProductID),
					zap.String("size", v.Size),
					zap.Error(err))
				util.FeedRowsFailedTotal.WithLabelValues("insert_legacy").Inc()
				summary.Failed++
				continue
			}
			util.FeedRowsInsertedTotal.Inc()
			summary.Inserted++
			continue
		}

		if row.Price.Equal(v.Price) && row.Status == v.Status {
			util.FeedRowsUnchangedTotal.Inc()
			summary.Unchanged++
			continue
		}

		if err := r.store.UpdateLegacyProduct(ctx, v.Key(), v.Price, v.Status); err != nil {
			r.logger.Error("Failed to update product row",
				zap.Int64("product_id", v.ProductID),
				zap.String("size", v.Size),
				zap.Error(err))
			util.FeedRowsFailedTotal.WithLabelValues("update_legacy").Inc()
			summary.Failed++
			continue
		}
		util.FeedRowsUpdatedTotal.Inc()
		summary.Updated++
	}

	return summary, nil
}
