package model

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxProductNameLen = 120
	MaxPresetNameLen  = 64
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func validateName(field, name string, max int) error {
	if strings.TrimSpace(name) == "" {
		return invalid(field, "must not be empty")
	}
	if name != strings.TrimSpace(name) {
		return invalid(field, "must not start or end with whitespace")
	}
	if utf8.RuneCountInString(name) > max {
		return invalid(field, fmt.Sprintf("longer than %d characters", max))
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return invalid(field, "contains control characters")
		}
	}
	return nil
}

func ValidateProductName(name string) error {
	return validateName("name", name, MaxProductNameLen)
}

func ValidatePresetName(name string) error {
	return validateName("preset name", name, MaxPresetNameLen)
}

func ValidateAmount(n int) error {
	if n < 0 {
		return invalid("amount", "must be zero or greater")
	}
	return nil
}

func ValidateCategoryKey(key CategoryName) error {
	if key == "" || key.Valid() {
		return nil
	}
	return invalid("category", fmt.Sprintf("unknown category %q", string(key)))
}

// ValidateImage accepts an empty value (clears the image) or an inline image data URI.
func ValidateImage(dataURI string) error {
	if dataURI == "" {
		return nil
	}
	if !strings.HasPrefix(dataURI, "data:image/") {
		return invalid("image", "must be a data:image/... URI")
	}
	if !strings.Contains(dataURI, ";base64,") {
		return invalid("image", "must be base64 encoded")
	}
	return nil
}

func ValidateProduct(p Product) error {
	if err := ValidateProductName(p.Name); err != nil {
		return err
	}
	if err := ValidateAmount(p.Amount); err != nil {
		return err
	}
	if err := ValidateCategoryKey(p.CategoryKey); err != nil {
		return err
	}
	return ValidateImage(p.UploadedImg)
}
