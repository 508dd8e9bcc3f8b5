package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from an optional yaml file and the environment.
// Env keys follow the dotted path with underscores, e.g. SMTP_PASSWORD or
// MONITOR_FRESHNESS_WINDOW.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	v.SetDefault("app.name", "ticketwatch")
	v.SetDefault("app.env", "dev")

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.graceful_timeout", "5s")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("upstream.variant", "legacy")
	v.SetDefault("upstream.base_url", "https://www.polynesia.com/packages/all/super-ambassador-package?_d=")
	v.SetDefault("upstream.use_relay", false)
	v.SetDefault("upstream.relay_url", "https://corsproxy.io/?")

	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.attempts", 1)
	v.SetDefault("fetch.retry_base", "500ms")

	v.SetDefault("monitor.freshness_window", "5m")
	v.SetDefault("monitor.cycle_pause", "300ms")
	v.SetDefault("monitor.warmup.enabled", true)
	v.SetDefault("monitor.warmup.start_date", "2025-12-25")
	v.SetDefault("monitor.warmup.end_date", "2025-12-29")
	v.SetDefault("monitor.warmup.adults", 6)
	v.SetDefault("monitor.warmup.children", 0)

	v.SetDefault("smtp.addr", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", "")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.use_tls", false)
	v.SetDefault("smtp.timeout", "10s")
	v.SetDefault("smtp.subj_prefix", "[ticketwatch]")

	v.SetDefault("notify.rearm_on_send_failure", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "ticketwatch")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
