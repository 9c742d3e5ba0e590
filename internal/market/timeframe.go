package market

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoFixedDuration 表示周期没有固定时长（月/年的天数不固定）。
// 调用方必须显式处理，不能用近似值代替。
var ErrNoFixedDuration = errors.New("timeframe has no fixed duration")

type TimeframeUnit int

const (
	UnitSecond TimeframeUnit = iota
	UnitMinute
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
)

func (u TimeframeUnit) String() string {
	switch u {
	case UnitSecond:
		return "second"
	case UnitMinute:
		return "minute"
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	case UnitYear:
		return "year"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// Timeframe 描述数据周期（单位 + 倍数）。倍数只对秒/分钟有意义，
// 日及以上周期固定步进 1 个单位。
type Timeframe struct {
	Unit       TimeframeUnit
	Multiplier int
}

// ParseTimeframe 解析配置里的周期字符串："30s"、"5m"、"1h"、"1d"、"1w"、"1M"、"1y"。
// 小时被换算成分钟，因为上游只区分秒和分钟两种日内单位。
func ParseTimeframe(input string) (Timeframe, error) {
	key := strings.TrimSpace(input)
	if key == "" {
		return Timeframe{}, fmt.Errorf("timeframe cannot be empty")
	}
	unitCh := key[len(key)-1]
	numStr := strings.TrimSpace(key[:len(key)-1])
	if numStr == "" {
		return Timeframe{}, fmt.Errorf("invalid timeframe: %s", input)
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n <= 0 {
		return Timeframe{}, fmt.Errorf("invalid timeframe multiplier: %s", input)
	}
	switch unitCh {
	case 's':
		return Timeframe{Unit: UnitSecond, Multiplier: n}, nil
	case 'm':
		return Timeframe{Unit: UnitMinute, Multiplier: n}, nil
	case 'h':
		return Timeframe{Unit: UnitMinute, Multiplier: n * 60}, nil
	case 'd':
		if n != 1 {
			return Timeframe{}, fmt.Errorf("day timeframe only supports multiplier 1: %s", input)
		}
		return Timeframe{Unit: UnitDay, Multiplier: 1}, nil
	case 'w':
		if n != 1 {
			return Timeframe{}, fmt.Errorf("week timeframe only supports multiplier 1: %s", input)
		}
		return Timeframe{Unit: UnitWeek, Multiplier: 1}, nil
	case 'M':
		if n != 1 {
			return Timeframe{}, fmt.Errorf("month timeframe only supports multiplier 1: %s", input)
		}
		return Timeframe{Unit: UnitMonth, Multiplier: 1}, nil
	case 'y':
		if n != 1 {
			return Timeframe{}, fmt.Errorf("year timeframe only supports multiplier 1: %s", input)
		}
		return Timeframe{Unit: UnitYear, Multiplier: 1}, nil
	default:
		return Timeframe{}, fmt.Errorf("unsupported timeframe: %s", input)
	}
}

func (tf Timeframe) String() string {
	switch tf.Unit {
	case UnitSecond:
		return fmt.Sprintf("%ds", tf.Multiplier)
	case UnitMinute:
		return fmt.Sprintf("%dm", tf.Multiplier)
	case UnitDay:
		return "1d"
	case UnitWeek:
		return "1w"
	case UnitMonth:
		return "1M"
	case UnitYear:
		return "1y"
	default:
		return tf.Unit.String()
	}
}

// Intraday 日内周期。上游对日内K线的时间戳按交易所时区解释，日及以上按 UTC。
func (tf Timeframe) Intraday() bool {
	return tf.Unit == UnitSecond || tf.Unit == UnitMinute
}

// ProviderCode 转成 Alor 风格的周期代码：日内以秒计数，其余用字母。
func (tf Timeframe) ProviderCode() string {
	switch tf.Unit {
	case UnitSecond:
		return strconv.Itoa(tf.Multiplier)
	case UnitMinute:
		return strconv.Itoa(tf.Multiplier * 60)
	case UnitDay:
		return "D"
	case UnitWeek:
		return "W"
	case UnitMonth:
		return "M"
	default:
		return "Y"
	}
}

// CloseTime 按开盘时间计算收盘时间。
// 秒/分钟乘以倍数；日/周固定加 1 个单位；月进位到下个月 1 号零点；年替换年份。
func (tf Timeframe) CloseTime(open time.Time) time.Time {
	switch tf.Unit {
	case UnitSecond:
		return open.Add(time.Duration(tf.Multiplier) * time.Second)
	case UnitMinute:
		return open.Add(time.Duration(tf.Multiplier) * time.Minute)
	case UnitDay:
		return open.AddDate(0, 0, 1)
	case UnitWeek:
		return open.AddDate(0, 0, 7)
	case UnitMonth:
		m := int(open.Month()) // 1..12
		year := open.Year() + m/12
		month := time.Month(m%12 + 1)
		return time.Date(year, month, 1, 0, 0, 0, 0, open.Location())
	default: // UnitYear
		return time.Date(open.Year()+1, open.Month(), open.Day(),
			open.Hour(), open.Minute(), open.Second(), open.Nanosecond(), open.Location())
	}
}

// Duration 周期的固定时长。月/年返回 ErrNoFixedDuration，调用方不能吞掉这个错误。
func (tf Timeframe) Duration() (time.Duration, error) {
	switch tf.Unit {
	case UnitSecond:
		return time.Duration(tf.Multiplier) * time.Second, nil
	case UnitMinute:
		return time.Duration(tf.Multiplier) * time.Minute, nil
	case UnitDay:
		return 24 * time.Hour, nil
	case UnitWeek:
		return 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%s: %w", tf.Unit, ErrNoFixedDuration)
	}
}
