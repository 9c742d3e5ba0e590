package feed

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cianoid/BackTraderAlor/internal/market"
)

// fastSchedule 把请求时间压到当下，让轮询循环在测试里高频转动。
type fastSchedule struct{}

func (fastSchedule) NextBarOpen(now time.Time, period time.Duration) time.Time {
	return now.Truncate(period)
}
func (fastSchedule) RequestTime(barOpen time.Time, period time.Duration) time.Time {
	return barOpen
}
func (fastSchedule) SafetyMargin() time.Duration          { return 5 * time.Millisecond }
func (fastSchedule) ToExchangeTime(t time.Time) time.Time { return t.UTC() }

func TestPollerPushesClosedBar(t *testing.T) {
	prov := new(mockProvider)
	closed := histBar(time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC))
	prov.On("GetHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]market.Bar{closed}, nil)

	inbox := NewInbox()
	f, err := New(prov, inbox, nil, Config{
		Exchange:  "MOEX",
		Symbol:    "SBER",
		Timeframe: market.Timeframe{Unit: market.UnitMinute, Multiplier: 5},
		LiveBars:  true,
		Schedule:  fastSchedule{},
	})
	require.NoError(t, err)

	require.NoError(t, f.Start(context.Background()))
	require.NotEmpty(t, f.Guid())
	assert.Equal(t, []Status{StatusDelayed, StatusConnected}, statuses(f.Notifications()))

	// 排程任务把拉到的第一根（已走完的）K线投入收件箱
	assert.Eventually(t, func() bool { return inbox.Len() > 0 }, 2*time.Second, 5*time.Millisecond)

	bar, _, ok := inbox.Claim("mock", f.Guid())
	require.True(t, ok)
	assert.Equal(t, closed.OpenTime, bar.OpenTime)

	f.Stop()
	assert.Equal(t, []Status{StatusDisconnected}, statuses(f.Notifications()))
	assert.Equal(t, "", f.Guid())

	// Stop 之后再 Stop 无副作用
	f.Stop()
	assert.Empty(t, f.Notifications())
}

func TestPollerKeepsGoingOnEmptyFetch(t *testing.T) {
	prov := new(mockProvider)
	var fetches atomic.Int32
	prov.On("GetHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { fetches.Add(1) }).
		Return([]market.Bar{}, nil)

	inbox := NewInbox()
	f, err := New(prov, inbox, nil, Config{
		Exchange:  "MOEX",
		Symbol:    "SBER",
		Timeframe: market.Timeframe{Unit: market.UnitMinute, Multiplier: 5},
		LiveBars:  true,
		Schedule:  fastSchedule{},
	})
	require.NoError(t, err)
	require.NoError(t, f.Start(context.Background()))

	// 空结果不会投递任何东西，也不会让任务退出
	assert.Eventually(t, func() bool {
		return fetches.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, inbox.Len())

	f.Stop()
}

func TestPollerRejectsCalendarTimeframes(t *testing.T) {
	prov := new(mockProvider)
	f, err := New(prov, NewInbox(), nil, Config{
		Exchange:  "MOEX",
		Symbol:    "SBER",
		Timeframe: market.Timeframe{Unit: market.UnitMonth, Multiplier: 1},
		LiveBars:  true,
		Schedule:  fastSchedule{},
	})
	require.NoError(t, err)

	err = f.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, market.ErrNoFixedDuration)
}
