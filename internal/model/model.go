// Package model defines the two merchant-scoped entities, their flat
// field-map wire shape, and the Record capability the table engine
// consumes so it never touches concrete entity types.
package model

import (
	"fmt"
	"strconv"
)

// Collection names in the record store.
const (
	CollectionItems      = "items"
	CollectionCategories = "categories"
)

// Default header sets for the two entity tables, in display order.
var (
	ItemHeaders     = []string{"id", "photo", "name", "category", "variants", "price", "cost"}
	CategoryHeaders = []string{"id", "photo", "name", "description", "createdAt", "updatedAt"}
)

// Record is the columnar view of one persisted entity. The table
// engine only sees this interface.
type Record interface {
	// Key is the store-assigned record key (the entity's real id).
	Key() string
	// RawValue returns the unformatted value of one field.
	RawValue(field string) any
	// Variants returns the priced sub-options, nil for entities that
	// have none.
	Variants() []Variant
}

// Variant is a priced sub-option of an Item. When any variants exist
// they override the item's own price and cost.
type Variant struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Cost  string `json:"cost"`
}

// Category is one merchant-owned grouping of items.
type Category struct {
	ID          string
	Name        string
	Description string
	Photo       string
	MerchantID  string
	CreatedAt   int64
	UpdatedAt   int64
}

func (c Category) Key() string { return c.ID }

func (c Category) Variants() []Variant { return nil }

func (c Category) RawValue(field string) any {
	switch field {
	case "id":
		return c.ID
	case "name":
		return c.Name
	case "description":
		return c.Description
	case "photo":
		return c.Photo
	case "merchantId":
		return c.MerchantID
	case "createdAt":
		return c.CreatedAt
	case "updatedAt":
		return c.UpdatedAt
	}
	return nil
}

// Item is one sellable product. Price and Cost hold the submitted
// form values; both are empty whenever Variants is non-empty.
type Item struct {
	ID         string
	Name       string
	Category   string
	Price      string
	Cost       string
	Photo      string
	Vars       []Variant
	MerchantID string
	CreatedAt  int64
	UpdatedAt  int64
}

func (i Item) Key() string { return i.ID }

func (i Item) Variants() []Variant { return i.Vars }

func (i Item) RawValue(field string) any {
	switch field {
	case "id":
		return i.ID
	case "name":
		return i.Name
	case "category":
		return i.Category
	case "price":
		return i.Price
	case "cost":
		return i.Cost
	case "photo":
		return i.Photo
	case "variants":
		return i.Vars
	case "merchantId":
		return i.MerchantID
	case "createdAt":
		return i.CreatedAt
	case "updatedAt":
		return i.UpdatedAt
	}
	return nil
}

// NormalizePricing enforces the submission invariant: an item with
// variants carries no top-level price or cost.
func (i *Item) NormalizePricing() {
	if len(i.Vars) > 0 {
		i.Price = ""
		i.Cost = ""
	}
}

// Fields returns the flat write payload for the store, without the key.
func (c Category) Fields() map[string]any {
	f := map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"photo":       c.Photo,
		"merchantId":  c.MerchantID,
		"createdAt":   c.CreatedAt,
	}
	if c.UpdatedAt > 0 {
		f["updatedAt"] = c.UpdatedAt
	}
	return f
}

// Fields returns the flat write payload for the store, without the key.
func (i Item) Fields() map[string]any {
	variants := make([]any, 0, len(i.Vars))
	for _, v := range i.Vars {
		variants = append(variants, map[string]any{"name": v.Name, "price": v.Price, "cost": v.Cost})
	}
	f := map[string]any{
		"name":       i.Name,
		"category":   i.Category,
		"price":      i.Price,
		"cost":       i.Cost,
		"photo":      i.Photo,
		"variants":   variants,
		"merchantId": i.MerchantID,
		"createdAt":  i.CreatedAt,
	}
	if i.UpdatedAt > 0 {
		f["updatedAt"] = i.UpdatedAt
	}
	return f
}

// CategoryFromFields rebuilds a category from a snapshot entry, keyed
// by its store key.
func CategoryFromFields(key string, fields map[string]any) Category {
	return Category{
		ID:          key,
		Name:        AsString(fields["name"]),
		Description: AsString(fields["description"]),
		Photo:       AsString(fields["photo"]),
		MerchantID:  AsString(fields["merchantId"]),
		CreatedAt:   AsInt64(fields["createdAt"]),
		UpdatedAt:   AsInt64(fields["updatedAt"]),
	}
}

// ItemFromFields rebuilds an item from a snapshot entry, keyed by its
// store key.
func ItemFromFields(key string, fields map[string]any) Item {
	return Item{
		ID:         key,
		Name:       AsString(fields["name"]),
		Category:   AsString(fields["category"]),
		Price:      AsString(fields["price"]),
		Cost:       AsString(fields["cost"]),
		Photo:      AsString(fields["photo"]),
		Vars:       variantsFromValue(fields["variants"]),
		MerchantID: AsString(fields["merchantId"]),
		CreatedAt:  AsInt64(fields["createdAt"]),
		UpdatedAt:  AsInt64(fields["updatedAt"]),
	}
}

func variantsFromValue(v any) []Variant {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Variant, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Variant{
			Name:  AsString(m["name"]),
			Price: AsString(m["price"]),
			Cost:  AsString(m["cost"]),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AsString stringifies a field value the way the original payloads do:
// numbers without exponent notation, nil as empty.
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprintf("%v", v)
}

// AsInt64 coerces JSON-decoded numeric field values to int64.
func AsInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}
