package lot

import (
	"time"

	"github.com/google/uuid"
)

// SeedLot is one harvested lot of a variety. Germination tests hang off it.
type SeedLot struct {
	ID            uuid.UUID `json:"id"`
	LotCode       string    `json:"lot_code"`
	VarietyPrefix string    `json:"variety_prefix"`
	HarvestYear   int       `json:"harvest_year"`
	CreatedAt     time.Time `json:"created_at"`

	// Latest germination result, if the lot has been tested.
	GerminationRate *int       `json:"germination_rate,omitempty"` // percent
	TestedOn        *time.Time `json:"tested_on,omitempty"`
}

// Label carries the fields printed on a freshly packed bulk bag.
type Label struct {
	Lines           []string `json:"lines,omitempty"`
	LotCode         string   `json:"lot_code,omitempty"`
	GerminationRate *int     `json:"germination_rate,omitempty"`
	PackageSize     string   `json:"package_size,omitempty"`
}
