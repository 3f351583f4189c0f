package order

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemKind is fixed when a line item is created and never changes afterwards.
type ItemKind string

const (
	KindPacket ItemKind = "PACKET"
	KindBulk   ItemKind = "BULK"
	KindMisc   ItemKind = "MISC"
)

// Address is the resolved shipping address of an order.
type Address struct {
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is a storefront order reconstructed from an export file.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Sequence        int64           `json:"sequence"`
	CustomerName    string          `json:"customer_name"`
	ShippingAddress Address         `json:"shipping_address"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	OrderDate       time.Time       `json:"order_date"`
	Note            string          `json:"note,omitempty"`
	HasBulkItems    bool            `json:"has_bulk_items"`
	HasMiscItems    bool            `json:"has_misc_items"`
	BatchID         *uuid.UUID      `json:"batch_id,omitempty"`
	Items           []*LineItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LineItem references exactly one of ProductID or MiscProductID.
type LineItem struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Position      int             `json:"position"`
	SKU           string          `json:"sku"`
	Kind          ItemKind        `json:"kind"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	MiscProductID *uuid.UUID      `json:"misc_product_id,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// AddItem appends a line item and keeps the bulk/misc flags in step.
func (o *Order) AddItem(item *LineItem) {
	item.OrderID = o.ID
	item.Position = len(o.Items)
	o.Items = append(o.Items, item)
	switch item.Kind {
	case KindBulk:
		o.HasBulkItems = true
	case KindMisc:
		o.HasMiscItems = true
	}
}

// ItemsOfKind returns the items of one kind, largest quantity first, ties by SKU.
func (o *Order) ItemsOfKind(kind ItemKind) []*LineItem {
	var out []*LineItem
	for _, it := range o.Items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}
