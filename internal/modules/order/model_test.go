package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrder_AddItem_Flags(t *testing.T) {
	o := &Order{ID: uuid.New()}
	o.AddItem(&LineItem{SKU: "CAR-DAN-pkt", Kind: KindPacket, Quantity: 1})
	assert.False(t, o.HasBulkItems)
	assert.False(t, o.HasMiscItems)

	o.AddItem(&LineItem{SKU: "CAR-DAN-1oz", Kind: KindBulk, Quantity: 1})
	o.AddItem(&LineItem{SKU: "TROWEL", Kind: KindMisc, Quantity: 1})
	assert.True(t, o.HasBulkItems)
	assert.True(t, o.HasMiscItems)
	assert.Equal(t, 2, o.Items[2].Position)
	assert.Equal(t, o.ID, o.Items[2].OrderID)
}

func TestOrder_ItemsOfKind_Sorted(t *testing.T) {
	o := &Order{ID: uuid.New()}
	o.AddItem(&LineItem{SKU: "TOM-BRA-pkt", Kind: KindPacket, Quantity: 1})
	o.AddItem(&LineItem{SKU: "BEA-PRO-pkt", Kind: KindPacket, Quantity: 3})
	o.AddItem(&LineItem{SKU: "ARU-SYL-pkt", Kind: KindPacket, Quantity: 1})
	o.AddItem(&LineItem{SKU: "BEA-PRO-1lb", Kind: KindBulk, Quantity: 2})

	got := o.ItemsOfKind(KindPacket)
	skus := make([]string, 0, len(got))
	for _, it := range got {
		skus = append(skus, it.SKU)
	}
	assert.Equal(t, []string{"BEA-PRO-pkt", "ARU-SYL-pkt", "TOM-BRA-pkt"}, skus)
	assert.Empty(t, o.ItemsOfKind(KindMisc))
}
