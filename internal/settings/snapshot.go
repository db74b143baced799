package settings

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// snapshot holds the in-memory DB config values.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

// globalSnapshot stores the latest snapshot atomically.
var globalSnapshot atomic.Value // stores snapshot

func init() {
	globalSnapshot.Store(snapshot{values: map[string]json.RawMessage{}})
}

// Store replaces the in-memory snapshot of DB-backed settings.
func Store(updatedAt time.Time, values map[string]json.RawMessage) {
	next := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if v == nil {
			next[key] = nil
			continue
		}
		copied := make([]byte, len(v))
		copy(copied, v)
		next[key] = copied
	}

	globalSnapshot.Store(snapshot{
		updatedAt: updatedAt.UTC(),
		values:    next,
	})
}

// Value returns a copy of the raw config value for a key.
func Value(key string) (json.RawMessage, bool) {
	cur := load()
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	val, ok := cur.values[key]
	if !ok {
		return nil, false
	}
	if val == nil {
		return nil, true
	}
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied, true
}

// UpdatedAt returns the last update timestamp of the snapshot.
func UpdatedAt() time.Time {
	return load().updatedAt
}

// SiteName returns the configured site name or its default.
func SiteName() string {
	raw, ok := Value(SiteNameKey)
	if !ok {
		return DefaultSiteName
	}
	var name string
	if errDecode := json.Unmarshal(raw, &name); errDecode != nil || strings.TrimSpace(name) == "" {
		return DefaultSiteName
	}
	return name
}

// WinnerMailEnabled reports whether winner notification mail is switched on.
func WinnerMailEnabled() bool {
	raw, ok := Value(WinnerMailEnabledKey)
	if !ok {
		return DefaultWinnerMailEnabled
	}
	var enabled bool
	if errDecode := json.Unmarshal(raw, &enabled); errDecode != nil {
		return DefaultWinnerMailEnabled
	}
	return enabled
}

// load returns the current snapshot with safe defaults.
func load() snapshot {
	v := globalSnapshot.Load()
	cur, ok := v.(snapshot)
	if !ok {
		return snapshot{values: map[string]json.RawMessage{}}
	}
	if cur.values == nil {
		return snapshot{updatedAt: cur.updatedAt, values: map[string]json.RawMessage{}}
	}
	return cur
}
