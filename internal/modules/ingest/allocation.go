package ingest

import (
	"github.com/google/uuid"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/batch"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
)

// Allocate splits requested units between pre-pack stock (pull) and fresh
// packing (print). toPrint+toPull always equals requested and newStock is never
// negative.
func Allocate(requested, stock int) (toPrint, toPull, newStock int) {
	if requested < 0 {
		requested = 0
	}
	if stock < 0 {
		stock = 0
	}
	switch {
	case stock == 0:
		return requested, 0, 0
	case requested <= stock:
		return 0, requested, stock - requested
	default:
		return requested - stock, stock, 0
	}
}

// Allocation is the outcome of Allocate for one bulk SKU.
type Allocation struct {
	SKU         string           `json:"sku"`
	Product     *catalog.Product `json:"-"`
	Requested   int              `json:"requested"`
	Print       int              `json:"print"`
	Pull        int              `json:"pull"`
	StockBefore int              `json:"stock_before"`
	StockAfter  int              `json:"stock_after"`
}

// Split runs Allocate once per distinct SKU against the given counters.
func Split(demand []BulkDemand, stock map[uuid.UUID]int) []Allocation {
	out := make([]Allocation, 0, len(demand))
	for _, d := range demand {
		before := stock[d.Product.ID]
		toPrint, toPull, after := Allocate(d.Requested, before)
		out = append(out, Allocation{
			SKU:         d.SKU,
			Product:     d.Product,
			Requested:   d.Requested,
			Print:       toPrint,
			Pull:        toPull,
			StockBefore: before,
			StockAfter:  after,
		})
	}
	return out
}

// cachedStock reads counters from the resolved products. Used where no row
// lock is taken (dry runs and reprocessing).
func cachedStock(demand []BulkDemand) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(demand))
	for _, d := range demand {
		out[d.Product.ID] = d.Product.PrepackStock
	}
	return out
}

func productIDs(demand []BulkDemand) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(demand))
	for _, d := range demand {
		ids = append(ids, d.Product.ID)
	}
	return ids
}

// allocationRecords emits one record per (SKU, action) with a non-zero quantity.
func allocationRecords(batchID uuid.UUID, allocs []Allocation) []batch.AllocationRecord {
	var records []batch.AllocationRecord
	for _, a := range allocs {
		if a.Print > 0 {
			records = append(records, batch.AllocationRecord{
				ID: uuid.New(), BatchID: batchID, SKU: a.SKU, Action: batch.ActionPrint, Quantity: a.Print,
			})
		}
		if a.Pull > 0 {
			records = append(records, batch.AllocationRecord{
				ID: uuid.New(), BatchID: batchID, SKU: a.SKU, Action: batch.ActionPull, Quantity: a.Pull,
			})
		}
	}
	return records
}
