package market

import (
	"fmt"
	"time"
)

// endOfDay 未设置收盘边界时的替代值。
const endOfDay = 24 * time.Hour

// 无边界哨兵。ParseClock 对空串返回的就是这两个值。
const (
	NoSessionStart time.Duration = 0
	NoSessionEnd   time.Duration = 0
)

// SessionWindow 交易时段窗口。零值表示全天无边界。
type SessionWindow struct {
	Start              time.Duration // 距当日零点的偏移，NoSessionStart = 不限制
	End                time.Duration // 距当日零点的偏移，NoSessionEnd = 不限制
	AllowFourPriceDoji bool
}

// StartBounded 是否设置了时段开始边界。
func (w SessionWindow) StartBounded() bool {
	return w.Start > 0
}

// EndBounded 是否设置了时段结束边界。
func (w SessionWindow) EndBounded() bool {
	return w.End > 0 && w.End < endOfDay
}

// EndOrEOD 结束边界；未设置时视为当日结束。
func (w SessionWindow) EndOrEOD() time.Duration {
	if w.EndBounded() {
		return w.End
	}
	return endOfDay
}

// TimeOfDay t 在其所在时区的当日时刻偏移。
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// ParseClock 解析 "HH:MM" 或 "HH:MM:SS" 为当日时刻偏移。空串返回 0（不限制）。
func ParseClock(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		sec = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid clock time %q", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("clock time out of range %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}
