package feed

import (
	"context"
	"fmt"

	"github.com/cianoid/BackTraderAlor/internal/logger"
)

// SubscribeFreqHintMs 订阅时传给上游的聚合频率（毫秒）。
// Alor OpenAPI 支持的答复：把隐藏参数 frequency 设成一个很大的值，
// 上一交易时段的最后一根K线才会在下一时段的第一笔成交时重新下发。
// 09:00-10:00 服务器重启期间期货订阅会丢，那段时间要改用排程取数。
const SubscribeFreqHintMs int64 = 1_000_000_000

// startSubscription 向上游注册推送订阅。K线由传输层的回调直接投入
// 共享收件箱，这里只负责拿到并保存订阅 guid。
func (f *Feed) startSubscription(ctx context.Context) error {
	guid, err := f.provider.SubscribeBars(ctx, f.cfg.Exchange, f.cfg.Symbol, f.cfg.Timeframe, f.cfg.From, SubscribeFreqHintMs)
	if err != nil {
		return fmt.Errorf("subscribe bars for %s: %w", f.name, err)
	}
	f.guid = guid
	logger.Infof("[feed] %s subscribed guid=%s", f.name, f.guid)
	return nil
}
