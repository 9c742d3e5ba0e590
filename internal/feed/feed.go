// Package feed 把轮询/推送两种方式送达的原始K线流整理成
// 单调有序、去重、按交易时段过滤的序列，供宿主的拉取循环消费。
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/cianoid/BackTraderAlor/internal/logger"
	"github.com/cianoid/BackTraderAlor/internal/market"
	"github.com/cianoid/BackTraderAlor/internal/transport"
)

// Config 单个数据源的配置。构造后不再变化。
type Config struct {
	Exchange  string
	Symbol    string
	Timeframe market.Timeframe
	Session   market.SessionWindow

	// LiveBars 为 false 时只回放历史，放完即止。
	LiveBars bool

	// Schedule 非空时新K线按交易所日历轮询获取，否则走推送订阅。
	Schedule transport.Schedule

	// From/To 历史选段。To 为零值表示不限制（实时模式忽略 To）。
	From time.Time
	To   time.Time
}

// LoadState 宿主拉取一步的结果。
type LoadState int

const (
	LoadNoBar LoadState = iota // 暂无新K线，下次再来
	LoadBar                    // 产出一根K线
	LoadDone                   // 历史放完，不会再有数据
)

type Result struct {
	State LoadState
	Bar   market.Bar
}

// Feed 一路K线数据源及其排序状态机。状态只由 Next 修改，
// 不在多个 Feed 之间共享。
type Feed struct {
	name     string
	cfg      Config
	provider transport.Provider
	inbox    *Inbox
	notifs   *NotificationQueue

	guid    string
	history []market.Bar

	lastOpen        time.Time // 单调不减的低水位线
	lastBarReceived bool
	liveMode        bool
	finished        bool

	cancel context.CancelFunc
	done   chan struct{}

	dropped int // 乱序/重复丢弃计数
}

// New 构造 Feed。Store 的工厂默认指到这里。
func New(provider transport.Provider, inbox *Inbox, notifs *NotificationQueue, cfg Config) (*Feed, error) {
	if provider == nil {
		return nil, fmt.Errorf("feed requires a provider")
	}
	if inbox == nil {
		return nil, fmt.Errorf("feed requires an inbox")
	}
	if notifs == nil {
		notifs = NewNotificationQueue()
	}
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("feed requires a symbol")
	}
	if cfg.Timeframe.Multiplier <= 0 {
		return nil, fmt.Errorf("feed requires a timeframe")
	}
	return &Feed{
		name:     fmt.Sprintf("%s.%s@%s", cfg.Exchange, cfg.Symbol, cfg.Timeframe),
		cfg:      cfg,
		provider: provider,
		inbox:    inbox,
		notifs:   notifs,
	}, nil
}

func (f *Feed) Name() string { return f.name }

// Guid 当前订阅/排程标识。未启动实时模式时为空。
func (f *Feed) Guid() string { return f.guid }

// Live 是否供给新K线（宿主据此决定能否预加载）。
func (f *Feed) Live() bool { return f.cfg.LiveBars }

// Notifications 排空并返回积累的状态通知。
func (f *Feed) Notifications() []Notification { return f.notifs.Drain() }

// Start 预取历史或接通新K线来源。
func (f *Feed) Start(ctx context.Context) error {
	f.notify(StatusDelayed)
	if !f.cfg.LiveBars {
		if err := f.prefetchHistory(ctx); err != nil {
			return err
		}
		if len(f.history) > 0 {
			f.notify(StatusConnected)
		}
		return nil
	}
	if f.cfg.Schedule != nil {
		if err := f.startPoller(ctx); err != nil {
			return err
		}
	} else {
		if err := f.startSubscription(ctx); err != nil {
			return err
		}
	}
	f.notify(StatusConnected)
	return nil
}

// Stop 停掉排程/订阅并等后台任务退出。历史模式没有任何在跑的东西。
func (f *Feed) Stop() {
	if f.guid == "" {
		return
	}
	if f.cfg.Schedule != nil {
		f.cancel()
		<-f.done
	} else {
		if err := f.provider.Unsubscribe(f.guid); err != nil {
			logger.Warnf("[feed] %s unsubscribe %s: %v", f.name, f.guid, err)
		}
	}
	f.guid = ""
	f.notify(StatusDisconnected)
}

// Next 宿主拉取循环的单步。非阻塞，收件箱为空时可以无限次调用。
func (f *Feed) Next(ctx context.Context) Result {
	if !f.cfg.LiveBars {
		return f.nextHistorical()
	}
	return f.nextLive(ctx)
}

func (f *Feed) nextHistorical() Result {
	if len(f.history) == 0 {
		if !f.finished {
			f.finished = true
			f.notify(StatusDisconnected)
			logger.Debugf("[feed] %s history exhausted", f.name)
		}
		return Result{State: LoadDone}
	}
	bar := f.history[0]
	f.history = f.history[1:]
	return Result{State: LoadBar, Bar: bar}
}

func (f *Feed) nextLive(ctx context.Context) Result {
	raw, last, ok := f.inbox.Claim(f.provider.Name(), f.guid)
	if !ok {
		return Result{State: LoadNoBar}
	}
	// 取走时收件箱里只剩这一条，说明马上要追上实时边缘
	f.lastBarReceived = last
	bar := f.normalize(raw)
	if !barValid(bar, f.cfg.Session, f.cfg.Timeframe, f.exchangeNow(ctx)) {
		return Result{State: LoadNoBar}
	}
	if !bar.OpenTime.After(f.lastOpen) {
		// 过去的K线（重复或乱序），丢弃后继续等
		f.dropped++
		logger.Debugf("[feed] %s drop out-of-order bar open=%s last=%s",
			f.name, bar.OpenTime, f.lastOpen)
		return Result{State: LoadNoBar}
	}
	f.lastOpen = bar.OpenTime
	if f.lastBarReceived && !f.liveMode {
		f.notify(StatusLive)
		f.liveMode = true
	} else if f.liveMode && !f.lastBarReceived {
		// 交易所维护窗口等场景：实时边缘退回补数据模式
		f.notify(StatusDelayed)
		f.liveMode = false
	}
	return Result{State: LoadBar, Bar: bar}
}

// Dropped 已丢弃的乱序/重复K线数量。
func (f *Feed) Dropped() int { return f.dropped }

func (f *Feed) prefetchHistory(ctx context.Context) error {
	bars, err := f.provider.GetHistory(ctx, f.cfg.Exchange, f.cfg.Symbol, f.cfg.Timeframe, f.cfg.From, f.cfg.To)
	if err != nil {
		return fmt.Errorf("prefetch history for %s: %w", f.name, err)
	}
	now := f.exchangeNow(ctx)
	for _, raw := range bars {
		bar := f.normalize(raw)
		if barValid(bar, f.cfg.Session, f.cfg.Timeframe, now) {
			f.history = append(f.history, bar)
		}
	}
	logger.Infof("[feed] %s prefetched %d bars (%d accepted)", f.name, len(bars), len(f.history))
	return nil
}

// normalize 统一时间基准并归一化价格。日内K线按交易所时区解释开盘时间，
// 日及以上保持 UTC。
func (f *Feed) normalize(raw market.Bar) market.Bar {
	open := raw.OpenTime.UTC()
	if f.cfg.Timeframe.Intraday() {
		open = open.In(f.provider.ExchangeLocation())
	}
	return market.Bar{
		OpenTime: open,
		Open:     f.provider.PriceToPrice(f.cfg.Exchange, f.cfg.Symbol, raw.Open),
		High:     f.provider.PriceToPrice(f.cfg.Exchange, f.cfg.Symbol, raw.High),
		Low:      f.provider.PriceToPrice(f.cfg.Exchange, f.cfg.Symbol, raw.Low),
		Close:    f.provider.PriceToPrice(f.cfg.Exchange, f.cfg.Symbol, raw.Close),
		Volume:   raw.Volume,
	}
}

// exchangeNow 当前交易所时间。
// 刚拿到最后一根历史K线（实时边缘）时问交易所服务器，
// 否则用本地时钟换算到交易所时区。时段边界附近过滤规则 4 依赖这一区别。
func (f *Feed) exchangeNow(ctx context.Context) time.Time {
	if f.lastBarReceived {
		if t, err := f.provider.ExchangeTime(ctx); err == nil {
			return t.In(f.provider.ExchangeLocation())
		} else {
			logger.Warnf("[feed] %s exchange time unavailable, fall back to local clock: %v", f.name, err)
		}
	}
	return time.Now().In(f.provider.ExchangeLocation())
}

func (f *Feed) notify(s Status) {
	f.notifs.Put(Notification{Status: s, Feed: f.name})
}
