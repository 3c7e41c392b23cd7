package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/restocker/pkg/cache"
	"github.com/ghuser/restocker/services/inventory/domain/models"
)

const prefsKeyPrefix = "prefs"

// PreferencesStore keeps one JSON document per device at "prefs:{deviceID}".
// Documents do not expire.
type PreferencesStore struct {
	client *cache.RedisClient
}

// NewPreferencesStore creates a PreferencesStore backed by the given RedisClient.
func NewPreferencesStore(r *cache.RedisClient) *PreferencesStore {
	return &PreferencesStore{client: r}
}

// Load returns the stored preferences for deviceID. found is false when the
// device has never saved any.
func (s *PreferencesStore) Load(ctx context.Context, deviceID string) (prefs models.Preferences, found bool, err error) {
	raw, err := s.client.Client().Get(ctx, s.key(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Preferences{}, false, nil
	}
	if err != nil {
		return models.Preferences{}, false, fmt.Errorf("preferences get: %w", err)
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return models.Preferences{}, false, fmt.Errorf("preferences decode: %w", err)
	}
	return prefs, true, nil
}

// Save overwrites the preferences for deviceID.
func (s *PreferencesStore) Save(ctx context.Context, deviceID string, prefs models.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("preferences encode: %w", err)
	}
	if err := s.client.Client().Set(ctx, s.key(deviceID), raw, 0).Err(); err != nil {
		return fmt.Errorf("preferences set: %w", err)
	}
	return nil
}

func (s *PreferencesStore) key(deviceID string) string {
	return prefsKeyPrefix + ":" + deviceID
}
