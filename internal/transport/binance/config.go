package binance

import (
	"strings"
	"time"
)

type Config struct {
	// Name 注册到 Store 的提供方名称，默认 "binance"。
	Name string

	RESTBaseURL string
	HTTPTimeout time.Duration

	ProxyEnabled bool
	RESTProxyURL string
	WSProxyURL   string

	// PriceSteps 各合约的最小变动价位，PriceToPrice 按它归一化报价。
	// 未配置的合约原样返回。
	PriceSteps map[string]float64
}

func (c *Config) withDefaults() Config {
	out := *c
	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" {
		out.Name = "binance"
	}
	out.RESTBaseURL = strings.TrimSpace(out.RESTBaseURL)
	if out.RESTBaseURL == "" {
		out.RESTBaseURL = "https://fapi.binance.com"
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = 15 * time.Second
	}
	out.RESTProxyURL = strings.TrimSpace(out.RESTProxyURL)
	out.WSProxyURL = strings.TrimSpace(out.WSProxyURL)
	return out
}
