package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// WidgetType identifies the kind of a widget and fixes the shape of its
// configuration.
type WidgetType string

const (
	WidgetProductSearch        WidgetType = "product_search"
	WidgetNutriscoreComparison WidgetType = "nutriscore_comparison"
	WidgetShoppingList         WidgetType = "shopping_list"
)

// Barcode caps per widget type.
const (
	MaxComparisonBarcodes   = 5
	MaxShoppingListBarcodes = 20
	maxBarcodeLength        = 14
)

// WidgetTypes lists every known widget type.
var WidgetTypes = []WidgetType{WidgetProductSearch, WidgetNutriscoreComparison, WidgetShoppingList}

// ParseWidgetType returns the WidgetType for s or ErrInvalidConfiguration.
func ParseWidgetType(s string) (WidgetType, error) {
	t := WidgetType(s)
	if !slices.Contains(WidgetTypes, t) {
		return "", fmt.Errorf("%w: unknown widget type %q", ErrInvalidConfiguration, s)
	}
	return t, nil
}

// IsSingleton reports whether a dashboard may hold at most one widget of t.
func (t WidgetType) IsSingleton() bool {
	return t == WidgetShoppingList
}

// Configuration is the typed settings document attached to a widget. The
// concrete type always matches the widget's WidgetType. The set of
// implementations is closed to this package.
type Configuration interface {
	Type() WidgetType
	Validate() error
	// Barcodes returns a copy of every barcode referenced by the config.
	Barcodes() []string

	clone() Configuration
}

// ProductSearchConfig shows a single product.
type ProductSearchConfig struct {
	Barcode string `json:"barcode"`
}

func (ProductSearchConfig) Type() WidgetType { return WidgetProductSearch }

func (c ProductSearchConfig) Validate() error {
	return ValidateBarcode(c.Barcode)
}

func (c ProductSearchConfig) Barcodes() []string { return []string{c.Barcode} }

func (c ProductSearchConfig) clone() Configuration { return c }

// ComparisonConfig compares the nutri-scores of 1 to 5 products.
type ComparisonConfig struct {
	ProductBarcodes []string `json:"barcodes"`
}

func (ComparisonConfig) Type() WidgetType { return WidgetNutriscoreComparison }

func (c ComparisonConfig) Validate() error {
	if len(c.ProductBarcodes) == 0 {
		return fmt.Errorf("%w: comparison needs at least one barcode", ErrInvalidConfiguration)
	}
	return validateBarcodeList(c.ProductBarcodes, MaxComparisonBarcodes)
}

func (c ComparisonConfig) Barcodes() []string { return slices.Clone(c.ProductBarcodes) }

func (c ComparisonConfig) clone() Configuration {
	return ComparisonConfig{ProductBarcodes: slices.Clone(c.ProductBarcodes)}
}

// ShoppingListConfig holds up to 20 product barcodes. It starts empty.
type ShoppingListConfig struct {
	Items []string `json:"barcodes"`
}

func (ShoppingListConfig) Type() WidgetType { return WidgetShoppingList }

func (c ShoppingListConfig) Validate() error {
	return validateBarcodeList(c.Items, MaxShoppingListBarcodes)
}

func (c ShoppingListConfig) Barcodes() []string { return slices.Clone(c.Items) }

func (c ShoppingListConfig) clone() Configuration {
	return ShoppingListConfig{Items: slices.Clone(c.Items)}
}

// Contains reports whether barcode is already on the list.
func (c ShoppingListConfig) Contains(barcode string) bool {
	return slices.Contains(c.Items, barcode)
}

// MarshalJSON always writes an array, never null.
func (c ShoppingListConfig) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []string{}
	}
	return json.Marshal(struct {
		Items []string `json:"barcodes"`
	}{items})
}

// DecodeConfiguration parses raw JSON into the configuration type matching t
// and validates it. Unknown fields are rejected. An empty document is only
// accepted for the shopping list, which then starts empty.
func DecodeConfiguration(t WidgetType, raw json.RawMessage) (Configuration, error) {
	raw = bytes.TrimSpace(raw)
	empty := len(raw) == 0 || bytes.Equal(raw, []byte("null"))

	var cfg Configuration
	switch t {
	case WidgetProductSearch:
		var c ProductSearchConfig
		if err := strictUnmarshal(raw, empty, &c); err != nil {
			return nil, err
		}
		cfg = c
	case WidgetNutriscoreComparison:
		var c ComparisonConfig
		if err := strictUnmarshal(raw, empty, &c); err != nil {
			return nil, err
		}
		cfg = c
	case WidgetShoppingList:
		var c ShoppingListConfig
		if !empty {
			if err := strictUnmarshal(raw, false, &c); err != nil {
				return nil, err
			}
		}
		cfg = c
	default:
		return nil, fmt.Errorf("%w: unknown widget type %q", ErrInvalidConfiguration, t)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EncodeConfiguration is the inverse of DecodeConfiguration.
func EncodeConfiguration(cfg Configuration) (json.RawMessage, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode %s configuration: %w", cfg.Type(), err)
	}
	return b, nil
}

func strictUnmarshal(raw []byte, empty bool, v any) error {
	if empty {
		return fmt.Errorf("%w: configuration is required", ErrInvalidConfiguration)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

func validateBarcodeList(barcodes []string, limit int) error {
	if len(barcodes) > limit {
		return fmt.Errorf("%w: at most %d barcodes allowed, got %d", ErrInvalidConfiguration, limit, len(barcodes))
	}
	seen := make(map[string]struct{}, len(barcodes))
	for _, b := range barcodes {
		if err := ValidateBarcode(b); err != nil {
			return err
		}
		if _, ok := seen[b]; ok {
			return fmt.Errorf("%w: duplicate barcode %q", ErrInvalidConfiguration, b)
		}
		seen[b] = struct{}{}
	}
	return nil
}

// ValidateBarcode checks that b looks like an EAN/UPC style product code.
func ValidateBarcode(b string) error {
	if b == "" || len(b) > maxBarcodeLength {
		return fmt.Errorf("%w: barcode must be 1 to %d digits", ErrInvalidConfiguration, maxBarcodeLength)
	}
	for i := range len(b) {
		if b[i] < '0' || b[i] > '9' {
			return fmt.Errorf("%w: barcode %q must contain only digits", ErrInvalidConfiguration, b)
		}
	}
	return nil
}
