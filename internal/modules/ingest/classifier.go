package ingest

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
)

// BulkDemand is the requested quantity of one bulk product summed over a
// whole file, regardless of which orders asked for it.
type BulkDemand struct {
	SKU       string
	Product   *catalog.Product
	Requested int
}

type demandTally map[string]*BulkDemand

func (t demandTally) add(p *catalog.Product, qty int) {
	sku := p.SKU()
	d, ok := t[sku]
	if !ok {
		d = &BulkDemand{SKU: sku, Product: p}
		t[sku] = d
	}
	d.Requested += qty
}

// list returns the demand sorted by SKU so allocation order is deterministic.
func (t demandTally) list() []BulkDemand {
	out := make([]BulkDemand, 0, len(t))
	for _, d := range t {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// Classifier turns resolved SKUs into typed line items and tallies bulk demand.
type Classifier struct {
	resolutions map[string]catalog.Resolution
	demand      demandTally
}

func NewClassifier(resolutions map[string]catalog.Resolution) *Classifier {
	return &Classifier{resolutions: resolutions, demand: demandTally{}}
}

// ItemKind maps a catalog resolution onto the line item kind it produces.
func ItemKind(res catalog.Resolution) (order.ItemKind, bool) {
	switch res.Kind {
	case catalog.KindPacket:
		return order.KindPacket, true
	case catalog.KindBulk:
		return order.KindBulk, true
	case catalog.KindMisc:
		return order.KindMisc, true
	}
	return "", false
}

// Classify builds the line item for one row. Bulk quantities are added to
// the file-level tally.
func (c *Classifier) Classify(sku string, qty int, price decimal.Decimal) (*order.LineItem, error) {
	res, ok := c.resolutions[catalog.NormalizeSKU(sku)]
	if !ok {
		return nil, fmt.Errorf("sku %q was not resolved", sku)
	}
	kind, ok := ItemKind(res)
	if !ok {
		return nil, fmt.Errorf("sku %q is not in the catalog", sku)
	}

	item := &order.LineItem{
		ID:        uuid.New(),
		SKU:       res.SKU,
		Kind:      kind,
		Quantity:  qty,
		UnitPrice: price,
	}
	switch kind {
	case order.KindMisc:
		id := res.Misc.ID
		item.MiscProductID = &id
	default:
		id := res.Product.ID
		item.ProductID = &id
	}
	if kind == order.KindBulk {
		c.demand.add(res.Product, qty)
	}
	return item, nil
}

// Demand returns the file-level bulk totals, one entry per SKU.
func (c *Classifier) Demand() []BulkDemand { return c.demand.list() }
