package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/jurko22/xml-import/internal/mailbox"
	"github.com/jurko22/xml-import/internal/models"

	"github.com/shopspring/decimal"
)

// subjectMarker is the literal every Shoptet order notification carries in
// its subject.
const subjectMarker = "Objednávka"

// productLiteral is the one product this template sells; anything else is
// rejected.
const productLiteral = "Sneaker Shields"

var (
	orderCodeRe = regexp.MustCompile(`Kód objednávky:\s?(\d+)`)
	productRe   = regexp.MustCompile(`(` + productLiteral + `)`)
	sizeRe      = regexp.MustCompile(`Veľkosť tenisky:\s?([\d-]+)`)
	priceRe     = regexp.MustCompile(`Cena za m²:\s?([\d,]+) €`)
)

// ShoptetExtractor handles the fixed Shoptet order notification template.
// It is intentionally narrow: one vendor, one template, everything else is
// rejected.
type ShoptetExtractor struct{}

// NewShoptetExtractor creates the Shoptet template extractor
func NewShoptetExtractor() *ShoptetExtractor {
	return &ShoptetExtractor{}
}

func (e *ShoptetExtractor) Name() string {
	return "shoptet"
}

// Match checks the template signature: the order marker in the subject.
func (e *ShoptetExtractor) Match(msg *mailbox.Message) bool {
	return strings.Contains(msg.Subject, subjectMarker)
}

// Extract pulls order id, product, size and per-unit price out of the plain
// text body. All four are required; any miss rejects the message.
func (e *ShoptetExtractor) Extract(msg *mailbox.Message) (*models.Order, error) {
	orderCode := orderCodeRe.FindStringSubmatch(msg.Text)
	product := productRe.FindStringSubmatch(msg.Text)
	size := sizeRe.FindStringSubmatch(msg.Text)
	priceMatch := priceRe.FindStringSubmatch(msg.Text)

	if orderCode == nil || product == nil || size == nil || priceMatch == nil {
		return nil, ErrNoMatch
	}

	price, err := decimal.NewFromString(
		strings.TrimSpace(strings.ReplaceAll(priceMatch[1], ",", ".")))
	if err != nil {
		return nil, ErrNoMatch
	}

	return &models.Order{
		OrderID:      strings.TrimSpace(orderCode[1]),
		ProductName:  product[1],
		Size:         strings.TrimSpace(size[1]),
		Price:        price,
		EmailSubject: msg.Subject,
		EmailFrom:    msg.From,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
