package enums

import "fmt"

// Label is the brand partition a request belongs to. Users only see requests
// carrying one of their labels.
type Label string

const (
	LabelColoriginz Label = "coloriginz"
	LabelPFC        Label = "pfc"
)

var validLabels = []Label{LabelColoriginz, LabelPFC}

// String implements fmt.Stringer.
func (l Label) String() string {
	return string(l)
}

// IsValid reports whether the value is a known Label.
func (l Label) IsValid() bool {
	for _, candidate := range validLabels {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLabel converts raw input into a Label.
func ParseLabel(value string) (Label, error) {
	for _, candidate := range validLabels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid label %q", value)
}
