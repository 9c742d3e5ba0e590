package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cianoid/BackTraderAlor/internal/logger"
)

// startPoller 启动按交易所日历轮询新K线的后台任务。
// 月/年周期没有固定时长，这里直接报错而不是拿近似值凑合。
func (f *Feed) startPoller(ctx context.Context) error {
	period, err := f.cfg.Timeframe.Duration()
	if err != nil {
		return fmt.Errorf("schedule polling for %s: %w", f.name, err)
	}
	f.guid = uuid.NewString()
	pollCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.done = make(chan struct{})
	go f.runPoller(pollCtx, period)
	logger.Infof("[feed] %s schedule poller started guid=%s period=%s", f.name, f.guid, period)
	return nil
}

// runPoller 的一轮：算出下一根K线的开盘时间和最早可请求时间，
// 睡到请求时间加安全余量，拉历史并把第一根（已走完的）K线投入收件箱。
// 没拉到就重新计算继续等，等待随时可被停止信号打断。
func (f *Feed) runPoller(ctx context.Context, period time.Duration) {
	defer close(f.done)
	sched := f.cfg.Schedule
	for {
		now := sched.ToExchangeTime(time.Now())
		barOpen := sched.NextBarOpen(now, period)
		requestAt := sched.RequestTime(barOpen, period)
		wait := requestAt.Sub(now) + sched.SafetyMargin()
		if !f.sleep(ctx, wait) {
			logger.Infof("[feed] %s schedule poller stopped", f.name)
			return
		}
		bars, err := f.provider.GetHistory(ctx, f.cfg.Exchange, f.cfg.Symbol, f.cfg.Timeframe, barOpen, time.Time{})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warnf("[feed] %s history fetch failed, retry next bar: %v", f.name, err)
			continue
		}
		if len(bars) == 0 {
			continue
		}
		f.inbox.Append(f.provider.Name(), f.guid, bars[0])
	}
}

// sleep 可中断等待。返回 false 表示收到停止信号。
func (f *Feed) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
