package config

import "strings"

const (
	defaultLogLevel       = "info"
	defaultPollIntervalMs = 250
	defaultProviderKind   = "binance"
	defaultHTTPTimeoutSec = 15
	defaultScheduleMargin = 3
)

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = defaultLogLevel
	}
	if c.App.PollIntervalMs <= 0 {
		c.App.PollIntervalMs = defaultPollIntervalMs
	}
	if strings.TrimSpace(c.Provider.Kind) == "" {
		c.Provider.Kind = defaultProviderKind
	}
	if strings.TrimSpace(c.Provider.Name) == "" {
		c.Provider.Name = c.Provider.Kind
	}
	if c.Provider.HTTPTimeoutSeconds <= 0 {
		c.Provider.HTTPTimeoutSeconds = defaultHTTPTimeoutSec
	}
	for i := range c.Feeds {
		if c.Feeds[i].ScheduleMarginSeconds <= 0 {
			c.Feeds[i].ScheduleMarginSeconds = defaultScheduleMargin
		}
	}
}
