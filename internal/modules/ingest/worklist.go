package ingest

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/lot"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
)

// Labeler supplies the label text for a freshly packed product.
type Labeler interface {
	LabelFields(ctx context.Context, p *catalog.Product) (lot.Label, error)
}

// PrintItem is one line of the bulk_to_print worklist.
type PrintItem struct {
	SKU             string   `json:"sku"`
	VarietyName     string   `json:"variety_name"`
	Category        string   `json:"category"`
	EnvironmentType string   `json:"environment_type,omitempty"`
	PackageSize     string   `json:"package_size,omitempty"`
	LabelLines      []string `json:"label_lines,omitempty"`
	LotCode         string   `json:"lot_code,omitempty"`
	GerminationRate *int     `json:"germination_rate,omitempty"`
	AltSKU          string   `json:"alt_sku,omitempty"`
	AltMultiplier   int      `json:"alt_multiplier,omitempty"`
	Quantity        int      `json:"quantity"`
}

// PullItem is one line of the bulk_to_pull worklist.
type PullItem struct {
	SKU         string `json:"sku"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
}

// BuildWorklists decorates allocations for the packing floor. Print items
// are ordered by (category, environment type, sku); pull items by (category, sku).
func BuildWorklists(ctx context.Context, labels Labeler, allocs []Allocation) ([]PrintItem, []PullItem, error) {
	printList := []PrintItem{}
	pullList := []PullItem{}
	for _, a := range allocs {
		p := a.Product
		if a.Print > 0 {
			label, err := labels.LabelFields(ctx, p)
			if err != nil {
				return nil, nil, err
			}
			printList = append(printList, PrintItem{
				SKU:             a.SKU,
				VarietyName:     p.VarietyName,
				Category:        p.Category,
				EnvironmentType: p.EnvironmentType,
				PackageSize:     label.PackageSize,
				LabelLines:      label.Lines,
				LotCode:         label.LotCode,
				GerminationRate: label.GerminationRate,
				AltSKU:          p.AltSKU,
				AltMultiplier:   p.AltMultiplier,
				Quantity:        a.Print,
			})
		}
		if a.Pull > 0 {
			pullList = append(pullList, PullItem{
				SKU:         a.SKU,
				DisplayName: p.VarietyName,
				Category:    p.Category,
				Quantity:    a.Pull,
			})
		}
	}

	sort.Slice(printList, func(i, j int) bool {
		x, y := printList[i], printList[j]
		if x.Category != y.Category {
			return x.Category < y.Category
		}
		if x.EnvironmentType != y.EnvironmentType {
			return x.EnvironmentType < y.EnvironmentType
		}
		return x.SKU < y.SKU
	})
	sort.Slice(pullList, func(i, j int) bool {
		x, y := pullList[i], pullList[j]
		if x.Category != y.Category {
			return x.Category < y.Category
		}
		return x.SKU < y.SKU
	})
	return printList, pullList, nil
}

// ItemDetail is a line item as shown in the per-order breakdown.
type ItemDetail struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderDetail is one order of the response with its items split by kind.
type OrderDetail struct {
	OrderNumber     string          `json:"order_number"`
	CustomerName    string          `json:"customer_name"`
	ShippingAddress order.Address   `json:"shipping_address"`
	OrderDate       time.Time       `json:"order_date"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Note            string          `json:"note,omitempty"`
	HasBulkItems    bool            `json:"has_bulk_items"`
	HasMiscItems    bool            `json:"has_misc_items"`
	MiscItems       []ItemDetail    `json:"misc_items"`
	BulkItems       []ItemDetail    `json:"bulk_items"`
	PacketItems     []ItemDetail    `json:"packet_items"`
}

func detailOf(o *order.Order, resolutions map[string]catalog.Resolution) OrderDetail {
	items := func(kind order.ItemKind) []ItemDetail {
		out := []ItemDetail{}
		for _, it := range o.ItemsOfKind(kind) {
			name := it.SKU
			if res, ok := resolutions[it.SKU]; ok {
				name = res.DisplayName()
			}
			out = append(out, ItemDetail{SKU: it.SKU, Name: name, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
		}
		return out
	}
	return OrderDetail{
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		Subtotal:        o.Subtotal,
		Shipping:        o.Shipping,
		Tax:             o.Tax,
		Total:           o.Total,
		Note:            o.Note,
		HasBulkItems:    o.HasBulkItems,
		HasMiscItems:    o.HasMiscItems,
		MiscItems:       items(order.KindMisc),
		BulkItems:       items(order.KindBulk),
		PacketItems:     items(order.KindPacket),
	}
}

// Result is the response of one ingestion run.
type Result struct {
	DryRun      bool             `json:"dry_run"`
	BatchID     *uuid.UUID       `json:"batch_id,omitempty"`
	BatchNumber string           `json:"batch_number,omitempty"`
	Orders      []OrderDetail    `json:"orders"`
	BulkToPrint []PrintItem      `json:"bulk_to_print"`
	BulkToPull  []PullItem       `json:"bulk_to_pull"`
	Allocations []Allocation     `json:"allocations"`
	Identifiers IdentifierReport `json:"identifiers"`
	Gaps        []int64          `json:"gaps"`
}

// ReprocessResult re-derives the worklists of one committed order.
type ReprocessResult struct {
	Order       OrderDetail  `json:"order"`
	BatchID     *uuid.UUID   `json:"batch_id,omitempty"`
	BulkToPrint []PrintItem  `json:"bulk_to_print"`
	BulkToPull  []PullItem   `json:"bulk_to_pull"`
	Allocations []Allocation `json:"allocations"`
}
