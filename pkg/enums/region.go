package enums

import "fmt"

// Region distinguishes EU suppliers from rest-of-world suppliers.
type Region string

const (
	RegionEU  Region = "eu"
	RegionROW Region = "row"
)

var validRegions = []Region{RegionEU, RegionROW}

// String implements fmt.Stringer.
func (r Region) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Region.
func (r Region) IsValid() bool {
	for _, candidate := range validRegions {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegion converts raw input into a Region.
func ParseRegion(value string) (Region, error) {
	for _, candidate := range validRegions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid region %q", value)
}
