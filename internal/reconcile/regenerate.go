package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jurko22/xml-import/internal/feed"
	"github.com/jurko22/xml-import/internal/models"
	"github.com/jurko22/xml-import/internal/util"

	"go.uber.org/zap"
)

// PriceSource provides the authoritative pricing the regenerated feed reflects.
type PriceSource interface {
	ListPriceView(ctx context.Context) ([]models.PriceViewRow, error)
	ListLegacyProducts(ctx context.Context) ([]models.LegacyProduct, error)
	ListUserOverrides(ctx context.Context) ([]models.UserOverride, error)
}

// RegeneratorConfig controls where prices come from and whether user
// overrides apply.
type RegeneratorConfig struct {
	// SingleTable reads prices from the legacy flat table instead of the
	// product_price_view.
	SingleTable bool
	// WithOverrides folds user_products prices in, forcing express status on
	// overridden variants.
	WithOverrides bool
	OutputPath    string
}

// Regenerator rewrites the fetched feed document with authoritative prices
// and availability, folding in user overrides, and replaces the output file.
type Regenerator struct {
	source PriceSource
	cfg    RegeneratorConfig
	logger *zap.Logger
}

// NewRegenerator creates a new feed regenerator
func NewRegenerator(source PriceSource, cfg RegeneratorConfig) *Regenerator {
	return &Regenerator{
		source: source,
		cfg:    cfg,
		logger: util.GetLogger(),
	}
}

type resolvedPrice struct {
	price  string
	status string
}

// Regenerate rewrites shop in place and writes it to the configured path,
// fully replacing any previous output. Identical store state and override
// data always produce byte-identical documents.
func (g *Regenerator) Regenerate(ctx context.Context, shop *feed.Shop) error {
	ctx, span := util.StartSpan(ctx, "Regenerator.Regenerate")
	defer span.End()

	authoritative, err := g.loadAuthoritative(ctx)
	if err != nil {
		return fmt.Errorf("failed to load authoritative prices: %w", err)
	}

	overrides := map[models.VariantKey]models.UserOverride{}
	if g.cfg.WithOverrides {
		rows, err := g.source.ListUserOverrides(ctx)
		if err != nil {
			return fmt.Errorf("failed to load user overrides: %w", err)
		}
		for _, o := range rows {
			overrides[models.VariantKey{ProductID: o.ProductID, Size: o.Size}] = o
		}
	}

	for i := range shop.Items {
		item := &shop.Items[i]

		productID, err := strconv.ParseInt(strings.TrimSpace(item.ID), 10, 64)
		if err != nil {
			// No usable identifier: the item passes through untouched, same
			// as it is skipped on import.
			continue
		}

		express := false
		for j := range item.Variants {
			variant := &item.Variants[j]
			key := models.VariantKey{ProductID: productID, Size: variantSize(variant)}

			resolved := g.resolve(key, variant, authoritative, overrides)
			variant.PriceVAT = resolved.price
			variant.Availability = resolved.status
			if resolved.status == models.StatusInStockExpress {
				express = true
			}
		}
		item.Express = express
	}

	if err := g.write(shop); err != nil {
		return err
	}

	util.FeedRegenerationsTotal.Inc()
	g.logger.Info("Output feed written",
		zap.String("path", g.cfg.OutputPath),
		zap.Int("items", len(shop.Items)))
	return nil
}

// resolve picks the price and status for one variant: override first, then
// the authoritative row, then whatever the source document carried.
func (g *Regenerator) resolve(
	key models.VariantKey,
	variant *feed.Variant,
	authoritative map[models.VariantKey]resolvedPrice,
	overrides map[models.VariantKey]models.UserOverride,
) resolvedPrice {
	if o, ok := overrides[key]; ok {
		return resolvedPrice{price: o.Price.String(), status: models.StatusInStockExpress}
	}

	if row, ok := authoritative[key]; ok {
		return row
	}

	status := strings.TrimSpace(variant.Availability)
	if status == "" {
		status = models.StatusUnknown
	}
	return resolvedPrice{price: variant.PriceVAT, status: status}
}

func (g *Regenerator) loadAuthoritative(ctx context.Context) (map[models.VariantKey]resolvedPrice, error) {
	authoritative := map[models.VariantKey]resolvedPrice{}

	if g.cfg.SingleTable {
		rows, err := g.source.ListLegacyProducts(ctx)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			authoritative[models.VariantKey{ProductID: row.ID, Size: row.Size}] = resolvedPrice{
				price:  row.Price.String(),
				status: canonicalStatus(row.Status),
			}
		}
		return authoritative, nil
	}

	rows, err := g.source.ListPriceView(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		authoritative[models.VariantKey{ProductID: row.ProductID, Size: row.Size}] = resolvedPrice{
			price:  row.Price.String(),
			status: canonicalStatus(row.Status),
		}
	}
	return authoritative, nil
}

// write replaces the output file atomically: marshal to a temp file in the
// same directory, then rename over the previous output.
func (g *Regenerator) write(shop *feed.Shop) error {
	data, err := feed.Marshal(shop)
	if err != nil {
		return err
	}

	dir := filepath.Dir(g.cfg.OutputPath)
	tmp, err := os.CreateTemp(dir, ".feed-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write output feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close output feed: %w", err)
	}

	if err := os.Rename(tmp.Name(), g.cfg.OutputPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace output feed: %w", err)
	}
	return nil
}

func variantSize(v *feed.Variant) string {
	if label := v.SizeLabel(); label != "" {
		return label
	}
	return models.SizeUnknown
}

func canonicalStatus(status string) string {
	if strings.TrimSpace(status) == "" {
		return models.StatusUnknown
	}
	return status
}
