package models

import (
	"fmt"
	"regexp"
	"strings"
)

// ItemName is a value object representing a valid item name.
// Encapsulates validation rules: 1 <= len(name) <= 255.
type ItemName string

const (
	minItemNameLength = 1
	maxItemNameLength = 255
	maxSKULength      = 64
)

// NewItemName constructs a valid ItemName or returns an error if constraints are violated.
func NewItemName(s string) (ItemName, error) {
	if len(s) < minItemNameLength {
		return "", fmt.Errorf("item name must be at least %d character", minItemNameLength)
	}
	if len(s) > maxItemNameLength {
		return "", fmt.Errorf("item name must not exceed %d characters", maxItemNameLength)
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}

// SKU is the stock keeping unit code, unique per org. Stored upper-cased.
type SKU string

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9._-]*$`)

// NewSKU trims and upper-cases s and checks it is a plain code.
func NewSKU(s string) (SKU, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("sku must not be empty")
	}
	if len(s) > maxSKULength {
		return "", fmt.Errorf("sku must not exceed %d characters", maxSKULength)
	}
	if !skuPattern.MatchString(s) {
		return "", fmt.Errorf("sku may only contain letters, digits, '.', '_' and '-'")
	}
	return SKU(s), nil
}

func (s SKU) String() string { return string(s) }
