package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cianoid/BackTraderAlor/internal/market"
)

func TestBarValid(t *testing.T) {
	tf := market.Timeframe{Unit: market.UnitMinute, Multiplier: 5}
	win := market.SessionWindow{
		Start:              10 * time.Hour,
		End:                18*time.Hour + 45*time.Minute,
		AllowFourPriceDoji: false,
	}
	// 交易所当前时间在时段结束之后，规则 4 不会拦截走完的K线
	now := time.Date(2024, 5, 2, 19, 0, 0, 0, time.UTC)

	mk := func(open time.Time) market.Bar {
		return market.Bar{OpenTime: open, Open: 10, High: 11, Low: 9, Close: 10.5}
	}

	t.Run("accepts bar inside session", func(t *testing.T) {
		bar := mk(time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC))
		assert.True(t, barValid(bar, win, tf, now))
	})

	t.Run("rejects open before session start", func(t *testing.T) {
		bar := mk(time.Date(2024, 5, 2, 9, 55, 0, 0, time.UTC))
		assert.False(t, barValid(bar, win, tf, now))
	})

	t.Run("rejects close past session end", func(t *testing.T) {
		// 开盘 18:42，5分钟线收盘 18:47 > 18:45
		bar := mk(time.Date(2024, 5, 2, 18, 42, 0, 0, time.UTC))
		assert.False(t, barValid(bar, win, tf, now))
	})

	t.Run("four price doji filtered unless allowed", func(t *testing.T) {
		doji := market.Bar{
			OpenTime: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
			Open:     10, High: 10, Low: 10, Close: 10,
		}
		assert.False(t, barValid(doji, win, tf, now))

		allow := win
		allow.AllowFourPriceDoji = true
		assert.True(t, barValid(doji, allow, tf, now))
	})

	t.Run("rejects still forming bar", func(t *testing.T) {
		// 12:00 开盘的5分钟线，12:03 时还没走完
		during := time.Date(2024, 5, 2, 12, 3, 0, 0, time.UTC)
		bar := mk(time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC))
		assert.False(t, barValid(bar, win, tf, during))
	})

	t.Run("session end closes the forming bar", func(t *testing.T) {
		// 时段已结束：最后一根K线即便收盘时间未到也算走完
		afterEnd := time.Date(2024, 5, 2, 18, 46, 0, 0, time.UTC)
		bar := mk(time.Date(2024, 5, 2, 18, 40, 0, 0, time.UTC))
		assert.True(t, barValid(bar, win, tf, afterEnd))
	})

	t.Run("unbounded window skips session rules", func(t *testing.T) {
		var open market.SessionWindow
		open.AllowFourPriceDoji = true
		bar := mk(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
		assert.True(t, barValid(bar, open, tf, now))
	})
}
