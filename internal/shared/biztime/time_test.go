package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndFormat(t *testing.T) {
	require.NoError(t, Init("Europe/Berlin"))
	t.Cleanup(func() { _ = Init("") })

	ts := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-07-01 12:00", FormatInBizTimezone(ts, "2006-01-02 15:04"))
}

func TestInit_UnknownZone(t *testing.T) {
	assert.Error(t, Init("Mars/Olympus"))
}

func TestSetNowFunc(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	restore := SetNowFunc(func() time.Time { return fixed })
	defer restore()

	assert.Equal(t, fixed.UTC(), NowUTC())
	assert.Equal(t, time.UTC, NowUTC().Location())
}
