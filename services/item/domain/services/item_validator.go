// Package services holds the item rules that need more than one field.
package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ghuser/inventra/services/item/domain/models"
)

var (
	errBlankName        = errors.New("item name must not be blank")
	errPaddedName       = errors.New("item name must not have leading or trailing whitespace")
	errControlInName    = errors.New("item name must not contain control characters")
	errDoubleSpacedName = errors.New("item name must not contain consecutive spaces")
)

// ValidateName checks what NewItemName leaves open: the name is printable,
// trimmed and single-spaced.
func ValidateName(name models.ItemName) error {
	s := name.String()
	switch {
	case strings.TrimSpace(s) == "":
		return errBlankName
	case s != strings.TrimSpace(s):
		return errPaddedName
	case strings.ContainsFunc(s, unicode.IsControl):
		return errControlInName
	case strings.Contains(s, "  "):
		return errDoubleSpacedName
	}
	return nil
}

// ValidateItemForCreation reports every violation on a new item at once.
// Stock is a quantity on hand, so the opening balance can be zero but never
// negative.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	var errs []error
	if item.ID == uuid.Nil {
		errs = append(errs, errors.New("id must be set"))
	}
	if item.OrgID == uuid.Nil {
		errs = append(errs, errors.New("org_id must be set"))
	}
	if item.SKU == "" {
		errs = append(errs, errors.New("sku must be set"))
	}
	if err := ValidateName(item.Name); err != nil {
		errs = append(errs, err)
	}
	if item.Rate.IsNegative() {
		errs = append(errs, errors.New("rate must not be negative"))
	}
	if !models.FitsScale(item.Rate) {
		errs = append(errs, fmt.Errorf("rate allows at most %d decimal places", models.Scale))
	}
	if item.Stock.IsNegative() {
		errs = append(errs, errors.New("opening stock must not be negative"))
	}
	if !models.FitsScale(item.Stock) {
		errs = append(errs, fmt.Errorf("opening stock allows at most %d decimal places", models.Scale))
	}
	return errors.Join(errs...)
}
