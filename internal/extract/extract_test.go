package extract

import (
	"testing"

	"github.com/jurko22/xml-import/internal/mailbox"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderBody = `Dobrý deň,

Kód objednávky: 778
Produkt: Sneaker Shields
Veľkosť tenisky: 42-43
Cena za m²: 3,50 €

Ďakujeme za Vašu objednávku.`

func TestShoptetExtractorAccepts(t *testing.T) {
	e := NewShoptetExtractor()
	msg := &mailbox.Message{
		Subject: "Objednávka č. 778",
		From:    "shop@example.com",
		Text:    orderBody,
	}

	require.True(t, e.Match(msg))

	order, err := e.Extract(msg)
	require.NoError(t, err)

	assert.Equal(t, "778", order.OrderID)
	assert.Equal(t, "Sneaker Shields", order.ProductName)
	assert.Equal(t, "42-43", order.Size)
	assert.True(t, order.Price.Equal(decimal.RequireFromString("3.50")),
		"comma decimal separator must be normalized")
	assert.Equal(t, "Objednávka č. 778", order.EmailSubject)
	assert.Equal(t, "shop@example.com", order.EmailFrom)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestShoptetExtractorRejectsForeignSubject(t *testing.T) {
	e := NewShoptetExtractor()
	msg := &mailbox.Message{
		Subject: "New order #4412",
		Text:    orderBody,
	}

	assert.False(t, e.Match(msg), "subject without the order marker must not match")
}

func TestShoptetExtractorRejectsMissingFields(t *testing.T) {
	e := NewShoptetExtractor()

	cases := map[string]string{
		"no order code": "Sneaker Shields\nVeľkosť tenisky: 42\nCena za m²: 3,50 €",
		"no product":    "Kód objednávky: 778\nVeľkosť tenisky: 42\nCena za m²: 3,50 €",
		"no size":       "Kód objednávky: 778\nSneaker Shields\nCena za m²: 3,50 €",
		"no price":      "Kód objednávky: 778\nSneaker Shields\nVeľkosť tenisky: 42",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			msg := &mailbox.Message{Subject: "Objednávka č. 778", Text: body}
			require.True(t, e.Match(msg))

			_, err := e.Extract(msg)
			assert.ErrorIs(t, err, ErrNoMatch)
		})
	}
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewRegistry(NewShoptetExtractor())

	order, name, ok := registry.Extract(&mailbox.Message{
		Subject: "Objednávka č. 778",
		Text:    orderBody,
	})
	require.True(t, ok)
	assert.Equal(t, "shoptet", name)
	assert.Equal(t, "778", order.OrderID)

	_, name, ok = registry.Extract(&mailbox.Message{
		Subject: "New order #4412",
		Text:    orderBody,
	})
	assert.False(t, ok)
	assert.Empty(t, name)

	_, name, ok = registry.Extract(&mailbox.Message{
		Subject: "Objednávka č. 779",
		Text:    "nothing useful here",
	})
	assert.False(t, ok)
	assert.Equal(t, "shoptet", name, "matched template reporting rejection keeps its name")
}
