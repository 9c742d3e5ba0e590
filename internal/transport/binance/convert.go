package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	"github.com/cianoid/BackTraderAlor/internal/market"
)

// intervalFor 周期到 Binance interval 代码。秒级和年线 Binance 不提供。
func intervalFor(tf market.Timeframe) (string, error) {
	switch tf.Unit {
	case market.UnitMinute:
		if tf.Multiplier%60 == 0 {
			return fmt.Sprintf("%dh", tf.Multiplier/60), nil
		}
		return fmt.Sprintf("%dm", tf.Multiplier), nil
	case market.UnitDay:
		return "1d", nil
	case market.UnitWeek:
		return "1w", nil
	case market.UnitMonth:
		return "1M", nil
	default:
		return "", fmt.Errorf("binance does not serve %s timeframes", tf.Unit)
	}
}

func parseFloat(v string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return f
}

func convertKline(kl *futures.Kline) market.Bar {
	return market.Bar{
		OpenTime: time.UnixMilli(kl.OpenTime).UTC(),
		Open:     parseFloat(kl.Open),
		High:     parseFloat(kl.High),
		Low:      parseFloat(kl.Low),
		Close:    parseFloat(kl.Close),
		Volume:   parseFloat(kl.Volume),
	}
}

func convertWsKline(kl futures.WsKline) market.Bar {
	return market.Bar{
		OpenTime: time.UnixMilli(kl.StartTime).UTC(),
		Open:     parseFloat(kl.Open),
		High:     parseFloat(kl.High),
		Low:      parseFloat(kl.Low),
		Close:    parseFloat(kl.Close),
		Volume:   parseFloat(kl.Volume),
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		d = time.Second
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

func nextDelay(current time.Duration) time.Duration {
	if current <= 0 {
		return time.Second
	}
	next := current * 2
	if next > 30*time.Second {
		next = 30 * time.Second
	}
	return next
}
