package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	brcfg "github.com/cianoid/BackTraderAlor/internal/config"
	"github.com/cianoid/BackTraderAlor/internal/feed"
	"github.com/cianoid/BackTraderAlor/internal/market"
	"github.com/cianoid/BackTraderAlor/internal/store"
	"github.com/cianoid/BackTraderAlor/internal/transport"
	"github.com/cianoid/BackTraderAlor/internal/transport/binance"
)

// AppBuilder 把配置逐段落地成可运行的对象图。
type AppBuilder struct {
	cfg *brcfg.Config
}

func NewAppBuilder(cfg *brcfg.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

func provideAppFromBuilder(b *AppBuilder, ctx context.Context) (*App, error) {
	return b.Build(ctx)
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if b == nil || b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	provider, err := buildProvider(&b.cfg.Provider)
	if err != nil {
		return nil, err
	}
	st := store.New(store.WithProvider(provider))
	for i := range b.cfg.Feeds {
		fc := &b.cfg.Feeds[i]
		feedCfg, err := buildFeedConfig(fc, provider.ExchangeLocation())
		if err != nil {
			return nil, fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if _, err := st.NewFeed("", feedCfg); err != nil {
			return nil, fmt.Errorf("feeds[%d]: %w", i, err)
		}
	}
	return &App{cfg: b.cfg, store: st}, nil
}

func buildProvider(pc *brcfg.ProviderConfig) (transport.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(pc.Kind)) {
	case "binance":
		return binance.New(binance.Config{
			Name:         pc.Name,
			RESTBaseURL:  pc.RESTBaseURL,
			HTTPTimeout:  time.Duration(pc.HTTPTimeoutSeconds) * time.Second,
			ProxyEnabled: pc.ProxyEnabled,
			RESTProxyURL: pc.RESTProxyURL,
			WSProxyURL:   pc.WSProxyURL,
			PriceSteps:   pc.PriceSteps,
		})
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", pc.Kind)
	}
}

func buildFeedConfig(fc *brcfg.FeedConfig, loc *time.Location) (feed.Config, error) {
	tf, err := market.ParseTimeframe(fc.Timeframe)
	if err != nil {
		return feed.Config{}, err
	}
	start, err := market.ParseClock(fc.SessionStart)
	if err != nil {
		return feed.Config{}, err
	}
	end, err := market.ParseClock(fc.SessionEnd)
	if err != nil {
		return feed.Config{}, err
	}
	from, err := fc.FromTime()
	if err != nil {
		return feed.Config{}, err
	}
	to, err := fc.ToTime()
	if err != nil {
		return feed.Config{}, err
	}
	cfg := feed.Config{
		Exchange:  fc.Exchange,
		Symbol:    fc.Symbol,
		Timeframe: tf,
		Session: market.SessionWindow{
			Start:              start,
			End:                end,
			AllowFourPriceDoji: fc.FourPriceDoji,
		},
		LiveBars: fc.LiveBars,
		From:     from,
		To:       to,
	}
	if fc.Schedule {
		cfg.Schedule = transport.NewAlignedSchedule(loc, time.Duration(fc.ScheduleMarginSeconds)*time.Second)
	}
	return cfg, nil
}
