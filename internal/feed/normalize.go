package feed

import (
	"strconv"
	"strings"

	"github.com/jurko22/xml-import/internal/models"
	"github.com/jurko22/xml-import/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FlattenStats counts what Flatten dropped.
type FlattenStats struct {
	ItemsSkipped      int
	DuplicatesSkipped int
}

// Flatten turns the nested item/variant document into normalized variant
// tuples. Items without a usable numeric identifier are skipped entirely;
// within one document later duplicates of a (product_id, size) key are
// rejected so the reconciler never writes the same key twice in a run.
func Flatten(shop *Shop) ([]models.FeedVariant, FlattenStats) {
	logger := util.GetLogger()

	var stats FlattenStats
	variants := make([]models.FeedVariant, 0, len(shop.Items))
	seen := make(map[models.VariantKey]struct{})

	for _, item := range shop.Items {
		util.FeedItemsSeenTotal.Inc()

		productID, err := strconv.ParseInt(strings.TrimSpace(item.ID), 10, 64)
		if err != nil {
			logger.Warn("Skipping feed item without usable identifier",
				zap.String("id", item.ID),
				zap.String("name", item.Name))
			util.FeedItemsSkippedTotal.WithLabelValues("bad_id").Inc()
			stats.ItemsSkipped++
			continue
		}

		var imageURL *string
		if len(item.Images) > 0 && item.Images[0] != "" {
			url := item.Images[0]
			imageURL = &url
		}

		for _, variant := range item.Variants {
			v := models.FeedVariant{
				ProductID: productID,
				Name:      item.Name,
				ImageURL:  imageURL,
				Size:      sizeLabel(variant),
				Price:     priceVAT(variant),
				Status:    status(variant),
			}

			if _, dup := seen[v.Key()]; dup {
				logger.Warn("Skipping duplicate variant key",
					zap.Int64("product_id", v.ProductID),
					zap.String("size", v.Size))
				util.FeedItemsSkippedTotal.WithLabelValues("duplicate_key").Inc()
				stats.DuplicatesSkipped++
				continue
			}
			seen[v.Key()] = struct{}{}

			variants = append(variants, v)
		}
	}

	return variants, stats
}

func sizeLabel(v Variant) string {
	if label := v.SizeLabel(); label != "" {
		return label
	}
	return models.SizeUnknown
}

func priceVAT(v Variant) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(v.PriceVAT))
	if err != nil {
		return decimal.Zero
	}
	return price
}

func status(v Variant) string {
	if s := strings.TrimSpace(v.Availability); s != "" {
		return s
	}
	return models.StatusUnknown
}
