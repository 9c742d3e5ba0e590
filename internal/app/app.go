// Package app 负责应用级编排：配置 → 提供方 → Store → Feed，
// 以及示例宿主的拉取循环。
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	brcfg "github.com/cianoid/BackTraderAlor/internal/config"
	"github.com/cianoid/BackTraderAlor/internal/feed"
	"github.com/cianoid/BackTraderAlor/internal/logger"
	"github.com/cianoid/BackTraderAlor/internal/store"
)

type App struct {
	cfg   *brcfg.Config
	store *store.Store
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *brcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Store 暴露底层注册表（给测试和回放工具用）。
func (a *App) Store() *store.Store {
	if a == nil {
		return nil
	}
	return a.store
}

// Run 启动 Store 与所有 Feed，然后为每路 Feed 跑一个拉取循环，
// 直到历史放完或收到取消信号。返回前保证 Store 已拆除。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.store.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.store.Stop(); err != nil {
			logger.Warnf("[app] store stop: %v", err)
		}
	}()
	feeds := a.store.Feeds()
	if len(feeds) == 0 {
		return fmt.Errorf("no feeds configured")
	}
	for _, f := range feeds {
		if err := f.Start(ctx); err != nil {
			return fmt.Errorf("start feed %s: %w", f.Name(), err)
		}
	}
	pollInterval := time.Duration(a.cfg.App.PollIntervalMs) * time.Millisecond
	group, ctx := errgroup.WithContext(ctx)
	for _, f := range feeds {
		f := f
		group.Go(func() error {
			return a.pullLoop(ctx, f, pollInterval)
		})
	}
	err := group.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// pullLoop 示例宿主：每个周期先排空状态通知再拉一步。
func (a *App) pullLoop(ctx context.Context, f *feed.Feed, interval time.Duration) error {
	for {
		for _, n := range f.Notifications() {
			logger.Infof("[host] %s status=%s", n.Feed, n.Status)
		}
		res := f.Next(ctx)
		switch res.State {
		case feed.LoadDone:
			for _, n := range f.Notifications() {
				logger.Infof("[host] %s status=%s", n.Feed, n.Status)
			}
			logger.Infof("[host] %s no more data (dropped=%d)", f.Name(), f.Dropped())
			return nil
		case feed.LoadBar:
			b := res.Bar
			logger.Infof("[host] %s bar open=%s O=%g H=%g L=%g C=%g V=%g",
				f.Name(), b.OpenTime.Format(time.RFC3339), b.Open, b.High, b.Low, b.Close, b.Volume)
		default: // LoadNoBar
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
	}
}
