package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionWindowBounds(t *testing.T) {
	t.Run("zero value is unbounded", func(t *testing.T) {
		var w SessionWindow
		assert.False(t, w.StartBounded())
		assert.False(t, w.EndBounded())
		assert.Equal(t, 24*time.Hour, w.EndOrEOD())
	})

	t.Run("bounded window", func(t *testing.T) {
		w := SessionWindow{Start: 10 * time.Hour, End: 18*time.Hour + 45*time.Minute}
		assert.True(t, w.StartBounded())
		assert.True(t, w.EndBounded())
		assert.Equal(t, 18*time.Hour+45*time.Minute, w.EndOrEOD())
	})

	t.Run("end at 24h counts as unbounded", func(t *testing.T) {
		w := SessionWindow{End: 24 * time.Hour}
		assert.False(t, w.EndBounded())
	})
}

func TestTimeOfDay(t *testing.T) {
	ts := time.Date(2024, 5, 2, 18, 45, 30, 0, time.UTC)
	assert.Equal(t, 18*time.Hour+45*time.Minute+30*time.Second, TimeOfDay(ts))

	midnight := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Duration(0), TimeOfDay(midnight))
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("10:00")
	assert.NoError(t, err)
	assert.Equal(t, 10*time.Hour, d)

	d, err = ParseClock("18:45:30")
	assert.NoError(t, err)
	assert.Equal(t, 18*time.Hour+45*time.Minute+30*time.Second, d)

	d, err = ParseClock("")
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)

	for _, bad := range []string{"25:00", "10:61", "10:00:99", "abc"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestBarFourPriceDoji(t *testing.T) {
	assert.True(t, Bar{High: 100, Low: 100}.FourPriceDoji())
	assert.False(t, Bar{High: 101, Low: 100}.FourPriceDoji())
}
