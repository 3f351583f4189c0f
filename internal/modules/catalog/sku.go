package catalog

import "strings"

// SplitSKU splits on the rightmost separator. ok is false for flat SKUs.
func SplitSKU(sku string) (prefix, suffix string, ok bool) {
	i := strings.LastIndex(sku, SKUSeparator)
	if i <= 0 || i == len(sku)-1 {
		return "", "", false
	}
	return sku[:i], sku[i+1:], true
}

// NormalizeSKU trims the whitespace exports tend to leave around SKUs.
func NormalizeSKU(sku string) string {
	return strings.TrimSpace(sku)
}
