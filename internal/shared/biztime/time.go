// Package biztime keeps every stored and transported timestamp in UTC. The
// business location is only used when presenting dates to people (mail
// bodies, order pages).
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var (
	bizLocation *time.Location
	locationMu  sync.RWMutex
	nowFunc     = time.Now
)

// Init sets the business location. An empty tz selects UTC.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load business timezone %q: %w", tz, err)
	}
	locationMu.Lock()
	bizLocation = loc
	locationMu.Unlock()
	return nil
}

func Location() *time.Location {
	locationMu.RLock()
	defer locationMu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

func NowUTC() time.Time {
	return nowFunc().UTC()
}

// SetNowFunc replaces the clock and returns a function restoring the
// previous one. Tests only.
func SetNowFunc(fn func() time.Time) (restore func()) {
	prev := nowFunc
	nowFunc = fn
	return func() { nowFunc = prev }
}

func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
