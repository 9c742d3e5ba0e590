package transport

import "time"

// AlignedSchedule 全天候市场（如加密货币）的最简日历：K线按周期对齐，
// 一根K线在自己的收盘时刻起可被请求。有真实交易时段的交易所
// 应当换成自己的 Schedule 实现。
type AlignedSchedule struct {
	Location *time.Location
	Margin   time.Duration
}

func NewAlignedSchedule(loc *time.Location, margin time.Duration) *AlignedSchedule {
	if loc == nil {
		loc = time.UTC
	}
	if margin <= 0 {
		margin = 3 * time.Second
	}
	return &AlignedSchedule{Location: loc, Margin: margin}
}

var _ Schedule = (*AlignedSchedule)(nil)

// NextBarOpen 当前正在形成的K线的开盘时间，即下一根会走完的K线。
func (s *AlignedSchedule) NextBarOpen(now time.Time, period time.Duration) time.Time {
	return now.Truncate(period)
}

// RequestTime K线走完即可请求。
func (s *AlignedSchedule) RequestTime(barOpen time.Time, period time.Duration) time.Time {
	return barOpen.Add(period)
}

func (s *AlignedSchedule) SafetyMargin() time.Duration {
	return s.Margin
}

func (s *AlignedSchedule) ToExchangeTime(t time.Time) time.Time {
	return t.In(s.Location)
}
