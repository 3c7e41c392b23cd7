package models

import "strings"

// MaxStoreHistory caps the remembered store names.
const MaxStoreHistory = 10

// Preferences is the per-device UI state: last unit picked, simple-mode
// flag, usage-rate mode and recently used stores (most recent first).
type Preferences struct {
	LastUnit     string   `json:"last_unit"`
	SimpleMode   bool     `json:"simple_mode"`
	RateMode     string   `json:"rate_mode"`
	StoreHistory []string `json:"store_history"`
}

// RememberStore moves store to the front of the history. Duplicates are
// matched case-insensitively and the list is capped at MaxStoreHistory.
// Blank names are ignored.
func (p *Preferences) RememberStore(store string) {
	store = strings.TrimSpace(store)
	if store == "" {
		return
	}
	history := make([]string, 0, len(p.StoreHistory)+1)
	history = append(history, store)
	for _, s := range p.StoreHistory {
		if strings.EqualFold(strings.TrimSpace(s), store) {
			continue
		}
		history = append(history, s)
	}
	if len(history) > MaxStoreHistory {
		history = history[:MaxStoreHistory]
	}
	p.StoreHistory = history
}

// RememberUnit records unit as the last used one. Blank units are ignored.
func (p *Preferences) RememberUnit(unit string) {
	if unit = strings.TrimSpace(unit); unit != "" {
		p.LastUnit = unit
	}
}
