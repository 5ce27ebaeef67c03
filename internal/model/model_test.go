package model

import (
	"reflect"
	"testing"
)

func TestNormalizePricingClearsTopLevelWhenVariantsExist(t *testing.T) {
	item := Item{
		Name:  "Coffee",
		Price: "5",
		Cost:  "2",
		Vars:  []Variant{{Name: "Small", Price: "5", Cost: "2"}},
	}
	item.NormalizePricing()
	if item.Price != "" || item.Cost != "" {
		t.Fatalf("price/cost not cleared: %q/%q", item.Price, item.Cost)
	}

	fields := item.Fields()
	if fields["price"] != "" || fields["cost"] != "" {
		t.Fatalf("stored payload kept pricing: %v / %v", fields["price"], fields["cost"])
	}
}

func TestNormalizePricingKeepsTopLevelWithoutVariants(t *testing.T) {
	item := Item{Name: "Mug", Price: "12", Cost: "4"}
	item.NormalizePricing()
	if item.Price != "12" || item.Cost != "4" {
		t.Fatalf("pricing changed without variants: %q/%q", item.Price, item.Cost)
	}
}

func TestItemFieldsRoundTrip(t *testing.T) {
	item := Item{
		ID:         "k1",
		Name:       "latte",
		Category:   "drinks",
		Photo:      "file:///objects/items/a.png",
		Vars:       []Variant{{Name: "Small", Price: "4", Cost: "1"}, {Name: "Large", Price: "6", Cost: "2"}},
		MerchantID: "m-1",
		CreatedAt:  1700000000000,
		UpdatedAt:  1700000100000,
	}

	got := ItemFromFields("k1", item.Fields())
	if !reflect.DeepEqual(got, item) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, item)
	}
}

func TestCategoryFieldsOmitUnsetUpdatedAt(t *testing.T) {
	cat := Category{ID: "c1", Name: "Drinks", Description: "hot and cold", MerchantID: "m-1", CreatedAt: 42}
	fields := cat.Fields()
	if _, ok := fields["updatedAt"]; ok {
		t.Fatal("updatedAt should be absent until first edit")
	}

	got := CategoryFromFields("c1", fields)
	if got != cat {
		t.Fatalf("round trip mismatch: %+v != %+v", got, cat)
	}
}

func TestRecordRawValue(t *testing.T) {
	item := Item{ID: "k", Name: "tea", CreatedAt: 99}
	var rec Record = item
	if rec.Key() != "k" {
		t.Fatalf("key = %q", rec.Key())
	}
	if rec.RawValue("name") != "tea" {
		t.Fatalf("name = %v", rec.RawValue("name"))
	}
	if rec.RawValue("createdAt") != int64(99) {
		t.Fatalf("createdAt = %v", rec.RawValue("createdAt"))
	}
	if rec.RawValue("nonsense") != nil {
		t.Fatal("unknown field should be nil")
	}
}

func TestVariantsFromSnapshotJSONShapes(t *testing.T) {
	fields := map[string]any{
		"name":      "smoothie",
		"createdAt": float64(1700000000000), // JSON numbers decode as float64
		"variants": []any{
			map[string]any{"name": "Mango", "price": "7", "cost": "3"},
			"garbage entry",
		},
	}
	item := ItemFromFields("k2", fields)
	if item.CreatedAt != 1700000000000 {
		t.Fatalf("createdAt = %d", item.CreatedAt)
	}
	if len(item.Vars) != 1 || item.Vars[0].Name != "Mango" {
		t.Fatalf("variants = %+v", item.Vars)
	}
}

func TestAsString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "x", want: "x"},
		{name: "float no exponent", in: float64(1700000000000), want: "1700000000000"},
		{name: "int64", in: int64(7), want: "7"},
		{name: "bool", in: true, want: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AsString(tt.in); got != tt.want {
				t.Fatalf("AsString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
