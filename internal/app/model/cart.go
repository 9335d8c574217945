package model

import "sort"

// Variation is one selected product option, e.g. {Name: "size", Value: "XL"}.
// A line's variation set is a secondary identity key: the same product in a
// different size is a different cart line.
type Variation struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CartLine is a single entry in a client's cart. Lines are persisted as a
// JSON array in insertion order; they are not database rows.
type CartLine struct {
	ProductID      uint        `json:"product_id"`
	Name           string      `json:"name"`
	Price          float64     `json:"price"`
	OldPrice       *float64    `json:"old_price,omitempty"`
	BulkPrice      *float64    `json:"bulk_price,omitempty"`
	ShippingAmount float64     `json:"shipping_amount,omitempty"`
	Quantity       int         `json:"quantity"`
	IsBulkOrder    bool        `json:"is_bulk_order"`
	Variations     []Variation `json:"variations,omitempty"`
}

// EffectivePrice is the unit price used for totals: the bulk price for bulk
// lines when one is set, the regular price otherwise.
func (l CartLine) EffectivePrice() float64 {
	if l.IsBulkOrder && l.BulkPrice != nil {
		return *l.BulkPrice
	}
	return l.Price
}

// SameLine reports whether other refers to the same cart entry. Product ID,
// bulk flag and variation set must all match. Bulk and regular lines for the
// same product are never the same entry.
func (l CartLine) SameLine(other CartLine) bool {
	return l.ProductID == other.ProductID &&
		l.IsBulkOrder == other.IsBulkOrder &&
		VariationsEqual(l.Variations, other.Variations)
}

// VariationsEqual compares two variation sets structurally: same pairs in
// any order. The comparison never depends on serialization order.
func VariationsEqual(a, b []Variation) bool {
	if len(a) != len(b) {
		return false
	}
	as := sortedVariations(a)
	bs := sortedVariations(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sortedVariations(v []Variation) []Variation {
	out := make([]Variation, len(v))
	copy(out, v)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Value < out[j].Value
	})
	return out
}
