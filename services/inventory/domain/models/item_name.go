package models

import (
	"fmt"
	"strings"
)

// ItemName is a value object representing a valid item name.
// Names are stored trimmed; matching and grouping use Key.
type ItemName string

const (
	minItemNameLength = 1
	maxItemNameLength = 255
)

// NewItemName trims s and returns it as an ItemName, or an error if the
// trimmed name is empty or longer than 255 bytes.
func NewItemName(s string) (ItemName, error) {
	s = strings.TrimSpace(s)
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

// Key is the normalized form used for name matching: trimmed and lowercased.
func (n ItemName) Key() string {
	return NameKey(string(n))
}

// NameKey normalizes a raw name the same way ItemName.Key does.
func NameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameName reports whether two names match case-insensitively after trimming.
func (n ItemName) SameName(other string) bool {
	return n.Key() == NameKey(other)
}
