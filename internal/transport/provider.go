// Package transport 定义行情提供方与交易所日历的协作契约。
// 引擎只消费这些接口；认证、HTTP/WebSocket 传输、重试都属于实现方。
package transport

import (
	"context"
	"time"

	"github.com/cianoid/BackTraderAlor/internal/market"
)

// BarHandler 推送回调。Store 在启动时注册一次，之后由传输层的
// 协程在新 bar 到达时调用（可能并发）。
type BarHandler func(provider, guid string, bar market.Bar)

// Provider 行情提供方。
type Provider interface {
	Name() string

	// GetHistory 拉取 from 起的历史K线。to 为零值表示不限制右端。
	// 返回的 bar 按 open_time 升序，时间戳一律为 UTC 瞬时，
	// 时区解释由消费方完成。
	GetHistory(ctx context.Context, exchange, symbol string, tf market.Timeframe, from, to time.Time) ([]market.Bar, error)

	// SubscribeBars 注册推送订阅并返回订阅 guid。freqHintMs 是上游的
	// 聚合频率提示（毫秒）。之后的 bar 通过 BarHandler 送达。
	SubscribeBars(ctx context.Context, exchange, symbol string, tf market.Timeframe, from time.Time, freqHintMs int64) (string, error)

	Unsubscribe(guid string) error

	// ExchangeTime 交易所服务器当前时间。
	ExchangeTime(ctx context.Context) (time.Time, error)

	// PriceToPrice 原始报价到价格的归一化（最小变动价位、债券百分比等）。
	PriceToPrice(exchange, symbol string, raw float64) float64

	ExchangeLocation() *time.Location

	SetBarHandler(h BarHandler)

	Close() error
}

// Schedule 交易所日历。引擎不自己推算交易时段，只问两个时间点。
type Schedule interface {
	// NextBarOpen 下一根待获取 bar 的开盘时间（交易所时区）。
	NextBarOpen(now time.Time, period time.Duration) time.Time

	// RequestTime 该 bar 在交易所侧最早可请求的时间。
	RequestTime(barOpen time.Time, period time.Duration) time.Time

	// SafetyMargin 请求时间上追加的安全余量。
	SafetyMargin() time.Duration

	// ToExchangeTime 本地时间换算到交易所时区。
	ToExchangeTime(t time.Time) time.Time
}
