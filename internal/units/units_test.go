package units

import (
	"errors"
	"math"
	"testing"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		want     float64
	}{
		{"m to ft", 1, "m", "ft", 3.28084},
		{"ft to m", 3.28084, "ft", "m", 1},
		{"sqm alias", 10, "sqm", "sq ft", 107.639},
		{"cubic metres to litres", 2, "m3", "litre", 2000},
		{"kg to lb", 50, "kg", "lb", 110.231},
		{"negative clamps", -5, "m", "mm", 0},
		{"nan clamps", math.NaN(), "kg", "oz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := KindOf(tt.from)
			if !ok {
				t.Fatalf("no kind for %q", tt.from)
			}
			got, err := k.Convert(tt.value, tt.from, tt.to)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertUnknownUnit(t *testing.T) {
	if _, ok := KindOf("furlong"); ok {
		t.Fatal("furlong has a kind")
	}
	length, _ := LookupKind("length")
	if _, err := length.Convert(1, "m", "kg"); !errors.Is(err, domain.ErrUnknownUnit) {
		t.Fatalf("cross-kind err = %v", err)
	}
}

func TestConverterSet(t *testing.T) {
	area, _ := LookupKind("area")
	c := NewConverter(area)
	if err := c.Set(2, "SQFT", "sqm"); err != nil {
		t.Fatal(err)
	}
	if c.From != "sq ft" || c.To != "sq m" || c.Value != 2 {
		t.Fatalf("converter = %+v", c)
	}
	if err := c.Set(5, "sq ft", "kg"); !errors.Is(err, domain.ErrUnknownUnit) {
		t.Fatalf("err = %v", err)
	}
	if c.To != "sq m" || c.Value != 2 {
		t.Fatalf("failed Set changed the converter: %+v", c)
	}
	if err := c.Set(-3, "acre", "sq m"); err != nil || c.Value != 0 {
		t.Fatalf("negative value not clamped: %+v %v", c, err)
	}
}

func TestConverterSwap(t *testing.T) {
	k, ok := LookupKind("length")
	if !ok {
		t.Fatal("length kind missing")
	}
	c := NewConverter(k)
	if c.From != "m" || c.To != "ft" || c.Value != 1 {
		t.Fatalf("converter = %+v", c)
	}
	if err := c.Swap(); err != nil {
		t.Fatal(err)
	}
	if c.From != "ft" || c.To != "m" || c.Value != 3.2808 {
		t.Fatalf("after swap = %+v", c)
	}
	r, _ := c.Result()
	if math.Abs(r-1) > 1e-4 {
		t.Fatalf("round trip = %v", r)
	}
}
