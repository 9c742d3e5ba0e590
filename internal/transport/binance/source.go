// Package binance 基于 go-binance SDK 的 transport.Provider 实现
// （Binance USDT 本位合约）。认证、重连、限流都交给 SDK 和本包，
// 引擎侧只看到 Provider 契约。
package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/google/uuid"

	"github.com/cianoid/BackTraderAlor/internal/logger"
	"github.com/cianoid/BackTraderAlor/internal/market"
	"github.com/cianoid/BackTraderAlor/internal/pkg/price"
	symbolpkg "github.com/cianoid/BackTraderAlor/internal/pkg/symbol"
	"github.com/cianoid/BackTraderAlor/internal/transport"
)

const maxHistoryLimit = 1500

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

type Provider struct {
	cfg    Config
	client *futures.Client

	handlerMu sync.RWMutex
	handler   transport.BarHandler

	mu   sync.Mutex
	subs map[string]*subscription
}

var _ transport.Provider = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {
	final := cfg.withDefaults()
	client := futures.NewClient("", "")
	client.BaseURL = final.RESTBaseURL
	httpClient := &http.Client{Timeout: final.HTTPTimeout}
	if final.ProxyEnabled && final.RESTProxyURL != "" {
		proxyURL, err := url.Parse(final.RESTProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REST proxy url: %w", err)
		}
		baseTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok || baseTransport == nil {
			return nil, fmt.Errorf("http DefaultTransport is not *http.Transport")
		}
		tr := baseTransport.Clone()
		tr.Proxy = http.ProxyURL(proxyURL)
		httpClient.Transport = tr
	}
	client.HTTPClient = httpClient
	if final.ProxyEnabled {
		wsProxy := final.WSProxyURL
		if wsProxy == "" {
			wsProxy = final.RESTProxyURL
		}
		if wsProxy != "" {
			futures.SetWsProxyUrl(wsProxy)
		}
	}
	return &Provider{
		cfg:    final,
		client: client,
		subs:   make(map[string]*subscription),
	}, nil
}

func (p *Provider) Name() string { return p.cfg.Name }

// ExchangeLocation Binance 全天候交易，时间基准就是 UTC。
func (p *Provider) ExchangeLocation() *time.Location { return time.UTC }

func (p *Provider) SetBarHandler(h transport.BarHandler) {
	p.handlerMu.Lock()
	p.handler = h
	p.handlerMu.Unlock()
}

func (p *Provider) ExchangeTime(ctx context.Context) (time.Time, error) {
	ms, err := p.client.NewServerTimeService().Do(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("binance server time: %w", err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// PriceToPrice 按配置的最小变动价位归一化报价。
func (p *Provider) PriceToPrice(_ string, symbol string, raw float64) float64 {
	step, ok := p.cfg.PriceSteps[symbol]
	if !ok {
		step, ok = p.cfg.PriceSteps[symbolpkg.ToBinance(symbol)]
	}
	if !ok {
		return raw
	}
	return price.RoundToStep(raw, step)
}

func (p *Provider) GetHistory(ctx context.Context, _ string, symbol string, tf market.Timeframe, from, to time.Time) ([]market.Bar, error) {
	interval, err := intervalFor(tf)
	if err != nil {
		return nil, err
	}
	cleanSymbol := symbolpkg.ToBinance(symbol)
	if cleanSymbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	var out []market.Bar
	start := from
	for {
		svc := p.client.NewKlinesService().Symbol(cleanSymbol).Interval(interval).Limit(maxHistoryLimit)
		if !start.IsZero() {
			svc = svc.StartTime(start.UnixMilli())
		}
		if !to.IsZero() {
			svc = svc.EndTime(to.UnixMilli())
		}
		kls, err := svc.Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s %s: %w", cleanSymbol, interval, err)
		}
		for _, kl := range kls {
			if kl == nil {
				continue
			}
			out = append(out, convertKline(kl))
		}
		if len(kls) < maxHistoryLimit {
			break
		}
		last := kls[len(kls)-1]
		start = time.UnixMilli(last.OpenTime + 1).UTC()
		if !to.IsZero() && !start.Before(to) {
			break
		}
	}
	return out, nil
}

// SubscribeBars 注册推送订阅：先回放 from 起的历史，再接实时K线流，
// 两者都通过 BarHandler 投递（对齐 Alor bars_get_and_subscribe 的语义）。
// freqHintMs 是 Alor 特有的聚合频率参数，Binance 流没有对应物，只记日志。
func (p *Provider) SubscribeBars(ctx context.Context, exchange, symbol string, tf market.Timeframe, from time.Time, freqHintMs int64) (string, error) {
	interval, err := intervalFor(tf)
	if err != nil {
		return "", err
	}
	cleanSymbol := symbolpkg.ToBinance(symbol)
	if cleanSymbol == "" {
		return "", fmt.Errorf("symbol is required")
	}
	guid := uuid.NewString()
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	p.mu.Lock()
	p.subs[guid] = sub
	p.mu.Unlock()
	logger.Debugf("[binance] subscribe %s %s guid=%s freq_hint=%dms", cleanSymbol, interval, guid, freqHintMs)
	go func() {
		defer close(sub.done)
		p.backfill(subCtx, guid, exchange, symbol, tf, from)
		p.runKlineLoop(subCtx, guid, cleanSymbol, interval)
	}()
	return guid, nil
}

func (p *Provider) Unsubscribe(guid string) error {
	p.mu.Lock()
	sub, ok := p.subs[guid]
	delete(p.subs, guid)
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown subscription %q", guid)
	}
	sub.cancel()
	<-sub.done
	return nil
}

func (p *Provider) Close() error {
	p.mu.Lock()
	subs := p.subs
	p.subs = make(map[string]*subscription)
	p.mu.Unlock()
	for _, sub := range subs {
		sub.cancel()
		<-sub.done
	}
	return nil
}

func (p *Provider) backfill(ctx context.Context, guid, exchange, symbol string, tf market.Timeframe, from time.Time) {
	bars, err := p.GetHistory(ctx, exchange, symbol, tf, from, time.Time{})
	if err != nil {
		if ctx.Err() == nil {
			logger.Warnf("[binance] backfill %s failed: %v", symbol, err)
		}
		return
	}
	for _, bar := range bars {
		if ctx.Err() != nil {
			return
		}
		p.push(guid, bar)
	}
}

// runKlineLoop 维持实时K线流，断开后按退避重连。只投递已收盘的K线。
func (p *Provider) runKlineLoop(ctx context.Context, guid, cleanSymbol, interval string) {
	delay := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		handler := func(event *futures.WsKlineEvent) {
			if event == nil || !event.Kline.IsFinal {
				return
			}
			p.push(guid, convertWsKline(event.Kline))
		}
		errHandler := func(err error) {
			if err != nil {
				logger.Warnf("[binance] ws error %s %s: %v", cleanSymbol, interval, err)
			}
		}
		doneC, stopC, err := futures.WsKlineServe(cleanSymbol, interval, handler, errHandler)
		if err != nil {
			logger.Warnf("[binance] ws connect %s %s failed: %v", cleanSymbol, interval, err)
			if !sleepWithContext(ctx, delay) {
				return
			}
			delay = nextDelay(delay)
			continue
		}
		delay = time.Second
		select {
		case <-ctx.Done():
			close(stopC)
			<-doneC
			return
		case <-doneC:
		}
		close(stopC)
		logger.Warnf("[binance] ws stream %s %s dropped, reconnecting", cleanSymbol, interval)
		if !sleepWithContext(ctx, delay) {
			return
		}
		delay = nextDelay(delay)
	}
}

func (p *Provider) push(guid string, bar market.Bar) {
	p.handlerMu.RLock()
	h := p.handler
	p.handlerMu.RUnlock()
	if h == nil {
		logger.Warnf("[binance] no bar handler registered, drop bar guid=%s open=%s", guid, bar.OpenTime)
		return
	}
	h(p.cfg.Name, guid, bar)
}
