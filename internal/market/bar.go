package market

import "time"

// Bar 一根 OHLCV K 线。构造后不再修改，OpenTime 是订阅内的唯一标识。
type Bar struct {
	OpenTime time.Time `json:"open_time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
}

// FourPriceDoji 四价合一（最高价等于最低价，通常为无成交K线）。
func (b Bar) FourPriceDoji() bool {
	return b.High == b.Low
}
