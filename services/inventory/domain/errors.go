package domain

import "errors"

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItem indicates an item record violates domain constraints
	// (empty name, non-finite numbers) and was rejected before storage.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInvalidActivity indicates an activity event has an unknown type.
	ErrInvalidActivity = errors.New("invalid activity")

	// ErrImportParse indicates an import payload is not a JSON array of items.
	// Nothing is written when this is returned.
	ErrImportParse = errors.New("malformed import payload")

	// ErrBarcodeNotFound indicates no name/unit mapping is cached for a barcode.
	ErrBarcodeNotFound = errors.New("barcode not found")

	// ErrInvalidPreferences indicates a preferences update carries an unknown
	// rate mode.
	ErrInvalidPreferences = errors.New("invalid preferences")
)
