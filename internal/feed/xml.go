package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Shop is the root of the product feed document.
type Shop struct {
	XMLName xml.Name   `xml:"SHOP"`
	Items   []ShopItem `xml:"SHOPITEM"`
}

// ShopItem is one product entry. The express flag is only ever present on
// regenerated output documents.
type ShopItem struct {
	ID       string    `xml:"id,attr"`
	Name     string    `xml:"NAME"`
	Images   []string  `xml:"IMAGES>IMAGE,omitempty"`
	Variants []Variant `xml:"VARIANTS>VARIANT"`
	Express  bool      `xml:"EXPRESNE-ODOSLANIE,omitempty"`
}

// Variant is one size/option of a product.
type Variant struct {
	Parameters   []Parameter `xml:"PARAMETERS>PARAMETER"`
	PriceVAT     string      `xml:"PRICE_VAT"`
	Availability string      `xml:"AVAILABILITY_OUT_OF_STOCK"`
}

// Parameter is a named variant attribute, e.g. the size label.
type Parameter struct {
	Name  string `xml:"NAME"`
	Value string `xml:"VALUE"`
}

// SizeLabel returns the first non-empty parameter value, or "" when the
// variant carries no parsable size.
func (v Variant) SizeLabel() string {
	for _, p := range v.Parameters {
		if label := strings.TrimSpace(p.Value); label != "" {
			return label
		}
	}
	return ""
}

// Parse decodes a feed document
func Parse(r io.Reader) (*Shop, error) {
	var shop Shop
	if err := xml.NewDecoder(r).Decode(&shop); err != nil {
		return nil, fmt.Errorf("failed to parse feed document: %w", err)
	}
	return &shop, nil
}

// Marshal encodes a feed document with the XML header and stable indentation,
// so identical input always yields byte-identical output
func Marshal(shop *Shop) ([]byte, error) {
	body, err := xml.MarshalIndent(shop, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feed document: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
