package enums

import "fmt"

// SupplierType classifies a supplier and drives which optional field groups
// are required on the onboarding form.
type SupplierType string

const (
	SupplierTypeKoop    SupplierType = "koop"
	SupplierTypeXKweker SupplierType = "x_kweker"
	SupplierTypeOKweker SupplierType = "o_kweker"
)

var validSupplierTypes = []SupplierType{
	SupplierTypeKoop,
	SupplierTypeXKweker,
	SupplierTypeOKweker,
}

// String implements fmt.Stringer.
func (s SupplierType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplierType.
func (s SupplierType) IsValid() bool {
	for _, candidate := range validSupplierTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSupplierType converts raw input into a SupplierType.
func ParseSupplierType(value string) (SupplierType, error) {
	for _, candidate := range validSupplierTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier type %q", value)
}
