package ingest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/batch"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
)

func TestAllocate_Scenarios(t *testing.T) {
	tests := []struct {
		name                       string
		requested, stock           int
		wantPrint, wantPull, wantN int
	}{
		{name: "exact stock", requested: 10, stock: 10, wantPrint: 0, wantPull: 10, wantN: 0},
		{name: "no stock", requested: 7, stock: 0, wantPrint: 7, wantPull: 0, wantN: 0},
		{name: "partial stock", requested: 9, stock: 4, wantPrint: 5, wantPull: 4, wantN: 0},
		{name: "surplus stock", requested: 3, stock: 8, wantPrint: 0, wantPull: 3, wantN: 5},
		{name: "nothing requested", requested: 0, stock: 6, wantPrint: 0, wantPull: 0, wantN: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, u, n := Allocate(tt.requested, tt.stock)
			assert.Equal(t, tt.wantPrint, p, "print")
			assert.Equal(t, tt.wantPull, u, "pull")
			assert.Equal(t, tt.wantN, n, "new stock")
		})
	}
}

func TestAllocate_Identity(t *testing.T) {
	for requested := 0; requested <= 40; requested++ {
		for stock := 0; stock <= 40; stock++ {
			p, u, n := Allocate(requested, stock)
			want := stock - requested
			if want < 0 {
				want = 0
			}
			require.Equal(t, requested, p+u, "print+pull for (%d,%d)", requested, stock)
			require.Equal(t, want, n, "new stock for (%d,%d)", requested, stock)
			require.GreaterOrEqual(t, n, 0)
			require.GreaterOrEqual(t, p, 0)
			require.LessOrEqual(t, u, stock)
		}
	}
}

func TestSplit_AndRecords(t *testing.T) {
	beans := &catalog.Product{ID: uuid.New(), VarietyPrefix: "BEA-PRO", SKUSuffix: "1lb"}
	peas := &catalog.Product{ID: uuid.New(), VarietyPrefix: "PEA-SUG", SKUSuffix: "1lb"}
	corn := &catalog.Product{ID: uuid.New(), VarietyPrefix: "COR-GOL", SKUSuffix: "1lb"}
	demand := []BulkDemand{
		{SKU: beans.SKU(), Product: beans, Requested: 9},
		{SKU: peas.SKU(), Product: peas, Requested: 2},
		{SKU: corn.SKU(), Product: corn, Requested: 3},
	}
	stock := map[uuid.UUID]int{beans.ID: 4, peas.ID: 10}

	allocs := Split(demand, stock)
	require.Len(t, allocs, 3)
	assert.Equal(t, Allocation{SKU: "BEA-PRO-1lb", Product: beans, Requested: 9, Print: 5, Pull: 4, StockBefore: 4, StockAfter: 0}, allocs[0])
	assert.Equal(t, 8, allocs[1].StockAfter)
	assert.Equal(t, 3, allocs[2].Print)

	batchID := uuid.New()
	records := allocationRecords(batchID, allocs)
	type key struct {
		sku    string
		action batch.Action
	}
	got := map[key]int{}
	for _, r := range records {
		assert.Equal(t, batchID, r.BatchID)
		got[key{r.SKU, r.Action}] = r.Quantity
	}
	assert.Equal(t, map[key]int{
		{"BEA-PRO-1lb", batch.ActionPrint}: 5,
		{"BEA-PRO-1lb", batch.ActionPull}:  4,
		{"PEA-SUG-1lb", batch.ActionPull}:  2,
		{"COR-GOL-1lb", batch.ActionPrint}: 3,
	}, got)
}
