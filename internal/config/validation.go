package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/cianoid/BackTraderAlor/internal/market"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.Provider.validate(); err != nil {
		return err
	}
	if len(c.Feeds) == 0 {
		return fmt.Errorf("feeds requires at least one entry")
	}
	for i := range c.Feeds {
		if err := c.Feeds[i].validate(); err != nil {
			return fmt.Errorf("feeds[%d]: %w", i, err)
		}
	}
	return nil
}

func (p *ProviderConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(p.Kind)) {
	case "binance":
		return nil
	default:
		return fmt.Errorf("unsupported provider kind: %s", p.Kind)
	}
}

func (f *FeedConfig) validate() error {
	if strings.TrimSpace(f.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	tf, err := market.ParseTimeframe(f.Timeframe)
	if err != nil {
		return err
	}
	if _, err := market.ParseClock(f.SessionStart); err != nil {
		return fmt.Errorf("session_start: %w", err)
	}
	if _, err := market.ParseClock(f.SessionEnd); err != nil {
		return fmt.Errorf("session_end: %w", err)
	}
	from, err := f.FromTime()
	if err != nil {
		return err
	}
	to, err := f.ToTime()
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("to must not be before from")
	}
	if f.Schedule && !f.LiveBars {
		return fmt.Errorf("schedule requires live_bars")
	}
	if f.Schedule {
		// 月/年没有固定周期时长，排程轮询在启动时就会被拒绝，这里提前报
		if _, err := tf.Duration(); err != nil {
			return err
		}
	}
	return nil
}

// FromTime 解析历史选段左端。空串返回零值。
func (f *FeedConfig) FromTime() (time.Time, error) {
	return parseWhen(f.From, "from")
}

// ToTime 解析历史选段右端。空串返回零值（不限制）。
func (f *FeedConfig) ToTime() (time.Time, error) {
	return parseWhen(f.To, "to")
}

func parseWhen(s, field string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s: invalid time %q (want RFC3339 or 2006-01-02)", field, s)
}
