package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const deviceIDKey contextKey = "device_id"

// ErrDeviceIDNotFound is returned when no device id exists in the request context.
var ErrDeviceIDNotFound = errors.New("device_id not found in context")

// DeviceIDFromCtx extracts the device id set by the Device middleware.
// Returns uuid.Nil and ErrDeviceIDNotFound if none is set.
func DeviceIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(deviceIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrDeviceIDNotFound
	}
	return id, nil
}

// WithDeviceID returns a new context with the given device id attached.
func WithDeviceID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, deviceIDKey, id)
}
