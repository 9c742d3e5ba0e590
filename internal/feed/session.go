package feed

import (
	"time"

	"github.com/cianoid/BackTraderAlor/internal/market"
)

// barValid 按顺序应用时段过滤规则，首个失败即拒绝：
//  1. 设置了时段开始且开盘早于它
//  2. 设置了时段结束且收盘晚于它
//  3. 不允许四价合一但 high == low
//  4. 收盘时间未到且交易所时段未结束（K线尚未走完）
//
// bar 的价格应当已经归一化，exchangeNow 应当已在交易所时区。
func barValid(bar market.Bar, win market.SessionWindow, tf market.Timeframe, exchangeNow time.Time) bool {
	if win.StartBounded() && market.TimeOfDay(bar.OpenTime) < win.Start {
		return false
	}
	closeAt := tf.CloseTime(bar.OpenTime)
	if win.EndBounded() && market.TimeOfDay(closeAt) > win.End {
		return false
	}
	if !win.AllowFourPriceDoji && bar.FourPriceDoji() {
		return false
	}
	if closeAt.After(exchangeNow) && market.TimeOfDay(exchangeNow) < win.EndOrEOD() {
		return false
	}
	return true
}
