package graph

import (
	"strings"

	"github.com/smsagro/books_backend/graph/model"
	"github.com/smsagro/books_backend/gst"
)

// pricingMode maps the schema enum onto gst; unset means tax exclusive.
func pricingMode(m *model.PricingMode) (gst.PricingMode, error) {
	if m == nil {
		return gst.ParsePricingMode("")
	}
	return gst.ParsePricingMode(strings.ToLower(m.String()))
}
