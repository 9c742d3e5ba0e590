package config

// Config 数据源引擎的主配置载体。
type Config struct {
	App      AppConfig      `toml:"app"`
	Provider ProviderConfig `toml:"provider"`
	Feeds    []FeedConfig   `toml:"feeds"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`

	// PollIntervalMs 宿主拉取循环空转时的休眠间隔。
	PollIntervalMs int `toml:"poll_interval_ms"`
}

type ProviderConfig struct {
	Name               string             `toml:"name"`
	Kind               string             `toml:"kind"`
	RESTBaseURL        string             `toml:"rest_base_url"`
	HTTPTimeoutSeconds int                `toml:"http_timeout_seconds"`
	ProxyEnabled       bool               `toml:"proxy_enabled"`
	RESTProxyURL       string             `toml:"rest_proxy_url"`
	WSProxyURL         string             `toml:"ws_proxy_url"`
	PriceSteps         map[string]float64 `toml:"price_steps"`
}

// FeedConfig 一路K线数据源。
type FeedConfig struct {
	Exchange  string `toml:"exchange"`
	Symbol    string `toml:"symbol"`
	Timeframe string `toml:"timeframe"`

	// SessionStart/SessionEnd 交易时段边界（"HH:MM" 或 "HH:MM:SS"），空 = 不限制。
	SessionStart  string `toml:"session_start"`
	SessionEnd    string `toml:"session_end"`
	FourPriceDoji bool   `toml:"four_price_doji"`

	// LiveBars false 只回放历史；true 历史加新K线。
	LiveBars bool `toml:"live_bars"`

	// Schedule true 时新K线按交易所日历轮询而不是推送订阅。
	Schedule              bool `toml:"schedule"`
	ScheduleMarginSeconds int  `toml:"schedule_margin_seconds"`

	// From/To 历史选段，RFC3339 或 "2006-01-02"。
	From string `toml:"from"`
	To   string `toml:"to"`
}
