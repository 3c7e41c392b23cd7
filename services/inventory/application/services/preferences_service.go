package services

import (
	"context"
	"fmt"
	"strings"

	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

// PreferencesStore persists per-device preferences.
type PreferencesStore interface {
	Load(ctx context.Context, deviceID string) (models.Preferences, bool, error)
	Save(ctx context.Context, deviceID string, prefs models.Preferences) error
}

// PreferencesUpdate carries the fields a client may change. Nil fields are
// left untouched. Store history is only changed by saving items.
type PreferencesUpdate struct {
	LastUnit   *string
	SimpleMode *bool
	RateMode   *string
}

// PreferencesService reads and writes device preferences. Callers pass the
// device explicitly; there is no ambient preference state.
type PreferencesService struct {
	store       PreferencesStore
	defaultMode domainsvcs.RateMode
}

// NewPreferencesService returns a PreferencesService. With a nil store every
// device sees the defaults and writes are dropped.
func NewPreferencesService(store PreferencesStore, defaultMode domainsvcs.RateMode) *PreferencesService {
	if defaultMode == "" {
		defaultMode = domainsvcs.RateManual
	}
	return &PreferencesService{store: store, defaultMode: defaultMode}
}

// Get returns the preferences of deviceID with defaults filled in.
func (s *PreferencesService) Get(ctx context.Context, deviceID string) (models.Preferences, error) {
	var prefs models.Preferences
	if s.store != nil && deviceID != "" {
		loaded, _, err := s.store.Load(ctx, deviceID)
		if err != nil {
			return models.Preferences{}, fmt.Errorf("load preferences: %w", err)
		}
		prefs = loaded
	}
	return s.withDefaults(prefs), nil
}

// Update applies u and returns the stored result.
func (s *PreferencesService) Update(ctx context.Context, deviceID string, u PreferencesUpdate) (models.Preferences, error) {
	prefs, err := s.Get(ctx, deviceID)
	if err != nil {
		return models.Preferences{}, err
	}
	if u.RateMode != nil {
		mode, err := domainsvcs.ParseRateMode(*u.RateMode)
		if err != nil {
			return models.Preferences{}, fmt.Errorf("%w: %w", itemdomain.ErrInvalidPreferences, err)
		}
		prefs.RateMode = string(mode)
	}
	if u.LastUnit != nil {
		prefs.RememberUnit(*u.LastUnit)
	}
	if u.SimpleMode != nil {
		prefs.SimpleMode = *u.SimpleMode
	}
	return prefs, s.save(ctx, deviceID, prefs)
}

// RecordItemSaved remembers the store and unit of a saved item.
func (s *PreferencesService) RecordItemSaved(ctx context.Context, deviceID, store, unit string) error {
	if strings.TrimSpace(store) == "" && strings.TrimSpace(unit) == "" {
		return nil
	}
	prefs, err := s.Get(ctx, deviceID)
	if err != nil {
		return err
	}
	prefs.RememberStore(store)
	prefs.RememberUnit(unit)
	return s.save(ctx, deviceID, prefs)
}

// RateMode returns the device's rate mode, or the default when unset or
// unreadable.
func (s *PreferencesService) RateMode(ctx context.Context, deviceID string) domainsvcs.RateMode {
	prefs, err := s.Get(ctx, deviceID)
	if err != nil {
		return s.defaultMode
	}
	mode, err := domainsvcs.ParseRateMode(prefs.RateMode)
	if err != nil {
		return s.defaultMode
	}
	return mode
}

func (s *PreferencesService) save(ctx context.Context, deviceID string, prefs models.Preferences) error {
	if s.store == nil || deviceID == "" {
		return nil
	}
	if err := s.store.Save(ctx, deviceID, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (s *PreferencesService) withDefaults(p models.Preferences) models.Preferences {
	if p.LastUnit == "" {
		p.LastUnit = models.DefaultUnit
	}
	if _, err := domainsvcs.ParseRateMode(p.RateMode); err != nil {
		p.RateMode = string(s.defaultMode)
	}
	if p.StoreHistory == nil {
		p.StoreHistory = []string{}
	}
	return p
}
