package ingest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
)

func testResolutions() map[string]catalog.Resolution {
	bulk := &catalog.Product{ID: uuid.New(), VarietyPrefix: "BEA-PRO", SKUSuffix: "1lb", VarietyName: "Provider Bean", Category: "Beans", PrepackStock: 4}
	pkt := &catalog.Product{ID: uuid.New(), VarietyPrefix: "CAR-DAN", SKUSuffix: "pkt", VarietyName: "Danvers Carrot", Category: "Roots"}
	misc := &catalog.MiscProduct{ID: uuid.New(), SKU: "TROWEL", Name: "Hand trowel"}
	return map[string]catalog.Resolution{
		"BEA-PRO-1lb": {SKU: "BEA-PRO-1lb", Kind: catalog.KindBulk, Product: bulk},
		"CAR-DAN-pkt": {SKU: "CAR-DAN-pkt", Kind: catalog.KindPacket, Product: pkt},
		"TROWEL":      {SKU: "TROWEL", Kind: catalog.KindMisc, Misc: misc},
	}
}

func TestAggregator_GroupsAndFlushes(t *testing.T) {
	rows := []Row{
		{Line: 2, OrderNumber: "S1", SKU: "BEA-PRO-1lb", Quantity: "2", Price: "12.50", CreatedAt: "2025-03-07",
			Shipping: AddressFields{Name: "Ada", Street1: "1 Farm Rd", City: ""},
			Billing:  AddressFields{Name: "Ada B", City: "Eugene", Region: "OR"},
			Subtotal: "28.25", Total: "30.00", Note: "🌱"},
		{Line: 3, OrderNumber: "S1", SKU: "CAR-DAN-pkt", Quantity: "1", Price: "3.25",
			Shipping: AddressFields{City: "Ignored"}},
		{Line: 4, OrderNumber: "S1", SKU: "BEA-PRO-1lb", Quantity: "1", Price: "12.50"},
		{Line: 5, OrderNumber: "S2", SKU: "TROWEL", Quantity: "1", Price: "18", CreatedAt: "2025-03-09",
			Billing: AddressFields{Name: "Bo"}},
		{Line: 6, OrderNumber: "S2", SKU: "BEA-PRO-1lb", Quantity: "4", Price: "12.50"},
	}

	agg, err := AggregateRows(rows, testResolutions(), time.UTC, 12)
	require.NoError(t, err)
	require.Len(t, agg.Orders, 2)

	s1 := agg.Orders[0]
	assert.Equal(t, "S1", s1.OrderNumber)
	assert.Equal(t, int64(1), s1.Sequence)
	assert.Equal(t, "Ada", s1.CustomerName)
	assert.Equal(t, "1 Farm Rd", s1.ShippingAddress.Street1)
	assert.Equal(t, "Eugene", s1.ShippingAddress.City, "blank shipping city falls back to billing")
	assert.Equal(t, "OR", s1.ShippingAddress.Region)
	assert.True(t, decimal.RequireFromString("28.25").Equal(s1.Subtotal))
	assert.Equal(t, NoteRemovedPlaceholder, s1.Note)
	assert.Len(t, s1.Items, 3)
	assert.True(t, s1.HasBulkItems)
	assert.False(t, s1.HasMiscItems)

	s2 := agg.Orders[1]
	assert.Equal(t, "Bo", s2.CustomerName)
	assert.True(t, s2.HasMiscItems)
	assert.Equal(t, order.KindMisc, s2.Items[0].Kind)

	require.Len(t, agg.Demand, 1)
	assert.Equal(t, "BEA-PRO-1lb", agg.Demand[0].SKU)
	assert.Equal(t, 7, agg.Demand[0].Requested, "bulk demand is summed across orders")

	assert.Equal(t, "S1", agg.FirstOrder)
	assert.Equal(t, "S2", agg.LastOrder)
	assert.Equal(t, 7, agg.DateStart.Day())
	assert.Equal(t, 9, agg.DateEnd.Day())
}

func TestAggregator_StateTransitions(t *testing.T) {
	a := NewAggregator(NewClassifier(testResolutions()), time.UTC, 12)
	assert.Equal(t, stateIdle, a.state)

	a.Feed(Row{Line: 2, OrderNumber: "S1", SKU: "TROWEL", Quantity: "1", CreatedAt: "2025-03-07"})
	assert.Equal(t, stateOpen, a.state)
	assert.Empty(t, a.orders)

	a.Feed(Row{Line: 3, OrderNumber: "S2", SKU: "TROWEL", Quantity: "1", CreatedAt: "2025-03-07"})
	assert.Equal(t, stateOpen, a.state)
	require.Len(t, a.orders, 1, "a new identifier flushes the open order")
	assert.Equal(t, "S2", a.current.OrderNumber)

	agg, err := a.Finish()
	require.NoError(t, err)
	assert.Len(t, agg.Orders, 2)
	assert.Equal(t, stateIdle, a.state)
}

func TestAggregator_Problems(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		want string
	}{
		{
			name: "non-contiguous group",
			rows: []Row{
				{Line: 2, OrderNumber: "S1", SKU: "TROWEL", Quantity: "1", CreatedAt: "2025-03-07"},
				{Line: 3, OrderNumber: "S2", SKU: "TROWEL", Quantity: "1", CreatedAt: "2025-03-07"},
				{Line: 4, OrderNumber: "S1", SKU: "TROWEL", Quantity: "1", CreatedAt: "2025-03-07"},
			},
			want: "line 4: order S1 appears in more than one group",
		},
		{
			name: "bad date",
			rows: []Row{{Line: 2, OrderNumber: "S1", SKU: "TROWEL", Quantity: "1", CreatedAt: "soon"}},
			want: "line 2: unrecognized date",
		},
		{
			name: "zero quantity",
			rows: []Row{{Line: 2, OrderNumber: "S1", SKU: "TROWEL", Quantity: "0", CreatedAt: "2025-03-07"}},
			want: "must be a positive integer",
		},
		{
			name: "bad price",
			rows: []Row{{Line: 2, OrderNumber: "S1", SKU: "TROWEL", Quantity: "1", Price: "1.2.3", CreatedAt: "2025-03-07"}},
			want: "malformed amount",
		},
		{
			name: "missing identifier",
			rows: []Row{{Line: 2, SKU: "TROWEL", Quantity: "1", CreatedAt: "2025-03-07"}},
			want: "missing order identifier",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AggregateRows(tt.rows, testResolutions(), time.UTC, 12)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.want)
		})
	}
}
