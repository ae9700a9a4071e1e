package enums

import "fmt"

// FileType categorizes an uploaded supplier document.
type FileType string

const (
	FileTypeKVK         FileType = "kvk"
	FileTypePassport    FileType = "passport"
	FileTypeBankDetails FileType = "bank_details"
	FileTypeOther       FileType = "other"
)

var validFileTypes = []FileType{
	FileTypeKVK,
	FileTypePassport,
	FileTypeBankDetails,
	FileTypeOther,
}

// String implements fmt.Stringer.
func (f FileType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FileType.
func (f FileType) IsValid() bool {
	for _, candidate := range validFileTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFileType converts raw input into a FileType.
func ParseFileType(value string) (FileType, error) {
	for _, candidate := range validFileTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid file type %q", value)
}
