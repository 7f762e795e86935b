package enums

import "fmt"

// DiscountType distinguishes the three discount families the engine evaluates.
type DiscountType string

const (
	DiscountTypeProduct DiscountType = "product"
	DiscountTypeOrder   DiscountType = "order"
	DiscountTypePromo   DiscountType = "promo"
)

var validDiscountTypes = []DiscountType{
	DiscountTypeProduct,
	DiscountTypeOrder,
	DiscountTypePromo,
}

// String implements fmt.Stringer.
func (t DiscountType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known DiscountType.
func (t DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

// DiscountValueType says how a discount value is interpreted when pricing.
type DiscountValueType string

const (
	DiscountValueTypePercentage DiscountValueType = "percentage"
	DiscountValueTypeFixed      DiscountValueType = "fixed"
)

var validDiscountValueTypes = []DiscountValueType{
	DiscountValueTypePercentage,
	DiscountValueTypeFixed,
}

// String implements fmt.Stringer.
func (t DiscountValueType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known DiscountValueType.
func (t DiscountValueType) IsValid() bool {
	for _, candidate := range validDiscountValueTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseDiscountValueType converts raw input into a DiscountValueType.
func ParseDiscountValueType(value string) (DiscountValueType, error) {
	for _, candidate := range validDiscountValueTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount value type %q", value)
}
