package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PacketSuffix marks a structured SKU as a seed packet (e.g. "CAR-DAN-pkt").
const PacketSuffix = "pkt"

// SKUSeparator splits a structured SKU into variety prefix and packaging suffix.
const SKUSeparator = "-"

// Kind is the outcome of a SKU lookup.
type Kind int

const (
	KindNotFound Kind = iota
	KindPacket
	KindBulk
	KindMisc
)

func (k Kind) String() string {
	switch k {
	case KindPacket:
		return "PACKET"
	case KindBulk:
		return "BULK"
	case KindMisc:
		return "MISC"
	default:
		return "NOT_FOUND"
	}
}

// Product is a structured catalog entry: one packaging of one variety.
type Product struct {
	ID              uuid.UUID  `json:"id"`
	VarietyPrefix   string     `json:"variety_prefix"`
	SKUSuffix       string     `json:"sku_suffix"`
	VarietyName     string     `json:"variety_name"`
	Category        string     `json:"category"`
	EnvironmentType string     `json:"environment_type,omitempty"` // e.g. COOL, WARM
	PackageSize     string     `json:"package_size,omitempty"`
	LabelLines      []string   `json:"label_lines,omitempty"`
	AltSKU          string     `json:"alt_sku,omitempty"`
	AltMultiplier   int        `json:"alt_multiplier,omitempty"`
	PrepackStock    int        `json:"prepack_stock"`
	LotID           *uuid.UUID `json:"lot_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SKU rebuilds the full structured SKU.
func (p *Product) SKU() string {
	return p.VarietyPrefix + SKUSeparator + p.SKUSuffix
}

// IsPacket reports whether the suffix denotes a seed packet.
func (p *Product) IsPacket() bool {
	return strings.EqualFold(p.SKUSuffix, PacketSuffix)
}

// MiscProduct is a flat SKU (tools, gift cards, books) with no stock counter.
type MiscProduct struct {
	ID        uuid.UUID `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Resolution is the tagged result of resolving a SKU. Exactly one of Product
// or Misc is set unless Kind is KindNotFound.
type Resolution struct {
	SKU     string       `json:"sku"`
	Kind    Kind         `json:"-"`
	Product *Product     `json:"product,omitempty"`
	Misc    *MiscProduct `json:"misc,omitempty"`
}

func (r Resolution) Found() bool { return r.Kind != KindNotFound }

// DisplayName is the human-facing name used on worklists.
func (r Resolution) DisplayName() string {
	switch {
	case r.Product != nil:
		return r.Product.VarietyName
	case r.Misc != nil:
		return r.Misc.Name
	}
	return r.SKU
}

// RestockRequest adds freshly pre-packed units to a bulk product.
type RestockRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}
