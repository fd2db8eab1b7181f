package bill

import (
	"path/filepath"
	"strings"
)

var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// ValidateReceiptName accepts receipt file names ending in jpg, jpeg or png.
func ValidateReceiptName(name string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(name)), "."))

	if _, ok := allowedExtensions[ext]; !ok {
		return ErrInvalidExtension
	}

	return nil
}
