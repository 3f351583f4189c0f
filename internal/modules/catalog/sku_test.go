package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSKU(t *testing.T) {
	tests := []struct {
		sku        string
		wantPrefix string
		wantSuffix string
		wantOK     bool
	}{
		{"CAR-DAN-pkt", "CAR-DAN", "pkt", true},
		{"BEA-PRO-1/4lb", "BEA-PRO", "1/4lb", true},
		{"TOM-1lb", "TOM", "1lb", true},
		{"GIFTCARD25", "", "", false},
		{"-pkt", "", "", false},
		{"TOM-", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.sku, func(t *testing.T) {
			prefix, suffix, ok := SplitSKU(tt.sku)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPrefix, prefix)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}
