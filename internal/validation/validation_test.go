package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type sample struct {
	Id   uuid.UUID       `validate:"required"`
	Rate decimal.Decimal `validate:"gte=0,lte=100"`
}

func TestNew_DecimalAndUUIDTags(t *testing.T) {
	v := New()
	ok := sample{Id: uuid.New(), Rate: decimal.RequireFromString("18")}
	if err := v.Struct(ok); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	cases := map[string]sample{
		"nil id":        {Id: uuid.Nil, Rate: decimal.RequireFromString("5")},
		"rate over 100": {Id: uuid.New(), Rate: decimal.RequireFromString("100.01")},
		"negative rate": {Id: uuid.New(), Rate: decimal.RequireFromString("-1")},
	}
	for name, s := range cases {
		if err := v.Struct(s); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
