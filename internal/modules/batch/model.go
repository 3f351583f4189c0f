package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action is what the packing floor does for a SKU.
type Action string

const (
	ActionPrint Action = "PRINT" // pack and label fresh units
	ActionPull  Action = "PULL"  // take units from pre-pack stock
)

func (a Action) Valid() bool { return a == ActionPrint || a == ActionPull }

// Batch is the immutable header of one committed ingestion run.
type Batch struct {
	ID               uuid.UUID          `json:"id"`
	BatchNumber      string             `json:"batch_number"`
	Sequence         int64              `json:"sequence"`
	OrderCount       int                `json:"order_count"`
	OrderNumberStart string             `json:"order_number_start"`
	OrderNumberEnd   string             `json:"order_number_end"`
	OrderDateStart   time.Time          `json:"order_date_start"`
	OrderDateEnd     time.Time          `json:"order_date_end"`
	Records          []AllocationRecord `json:"records,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// AllocationRecord is one (batch, SKU, action) decision. Never updated.
type AllocationRecord struct {
	ID       uuid.UUID `json:"id"`
	BatchID  uuid.UUID `json:"batch_id"`
	SKU      string    `json:"sku"`
	Action   Action    `json:"action"`
	Quantity int       `json:"quantity"`
}

// FormatNumber builds the human batch number: YYYYMMDD-NNNN.
func FormatNumber(day time.Time, sequence int64) string {
	return fmt.Sprintf("%s-%04d", day.Format("20060102"), sequence)
}
