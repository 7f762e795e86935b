package enums

import "fmt"

// ProductVolume is the bottle size in milliliters. The catalog stocks a small
// fixed set of sizes.
type ProductVolume int

const (
	ProductVolume50  ProductVolume = 50
	ProductVolume100 ProductVolume = 100
	ProductVolume200 ProductVolume = 200
)

var validProductVolumes = []ProductVolume{
	ProductVolume50,
	ProductVolume100,
	ProductVolume200,
}

// Int returns the milliliter value.
func (v ProductVolume) Int() int {
	return int(v)
}

// String implements fmt.Stringer.
func (v ProductVolume) String() string {
	return fmt.Sprintf("%dml", int(v))
}

// IsValid reports whether the value is a stocked bottle size.
func (v ProductVolume) IsValid() bool {
	for _, candidate := range validProductVolumes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseProductVolume converts a milliliter count into a ProductVolume.
func ParseProductVolume(value int) (ProductVolume, error) {
	for _, candidate := range validProductVolumes {
		if int(candidate) == value {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("invalid product volume %d", value)
}
