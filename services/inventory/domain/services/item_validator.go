package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ghuser/restocker/services/inventory/domain/models"
)

// ValidateName enforces business rules for ItemName beyond the structural
// constraints enforced by the ItemName constructor (length 1–255).
//
// Business rules:
//   - Must not be empty or only whitespace
//   - No control characters (Unicode category Cc)
func ValidateName(name models.ItemName) error {
	s := name.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("item name is required")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("item name must not contain control characters")
		}
	}

	if _, err := models.NewItemName(s); err != nil {
		return err
	}

	return nil
}

// ValidateItem checks a sanitized Item before it is written. It assumes
// Sanitize already ran, so numbers are finite and non-negative.
func ValidateItem(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}

	if err := ValidateName(item.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	for i, ev := range item.Activity {
		if !ev.Type.Valid() {
			return fmt.Errorf("activity %d: unknown type %q", i, ev.Type)
		}
		if ev.Qty < 0 {
			return fmt.Errorf("activity %d: qty must not be negative", i)
		}
	}

	return nil
}
