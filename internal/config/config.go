package config

import (
	"time"

	"github.com/mkealoha/ticketwatch/internal/fetch"
	"github.com/mkealoha/ticketwatch/internal/notifier"
	"github.com/mkealoha/ticketwatch/internal/obs"
)

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type Upstream struct {
	Variant  string `mapstructure:"variant"` // legacy | direct
	BaseURL  string `mapstructure:"base_url"`
	UseRelay bool   `mapstructure:"use_relay"`
	RelayURL string `mapstructure:"relay_url"`
}

type Fetch struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Attempts  int           `mapstructure:"attempts"`
	RetryBase time.Duration `mapstructure:"retry_base"`
}

func (f Fetch) AsFetchConfig() fetch.Config {
	return fetch.Config{
		Timeout:   f.Timeout,
		UserAgent: f.UserAgent,
		Attempts:  f.Attempts,
		RetryBase: f.RetryBase,
	}
}

type Warmup struct {
	Enabled   bool   `mapstructure:"enabled"`
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`
	Adults    int    `mapstructure:"adults"`
	Children  int    `mapstructure:"children"`
}

type Monitor struct {
	FreshnessWindow time.Duration `mapstructure:"freshness_window"`
	CyclePause      time.Duration `mapstructure:"cycle_pause"`
	Warmup          Warmup        `mapstructure:"warmup"`
}

type SMTP struct {
	Addr       string        `mapstructure:"addr"`
	From       string        `mapstructure:"from"`
	To         string        `mapstructure:"to"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	UseTLS     bool          `mapstructure:"use_tls"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SubjPrefix string        `mapstructure:"subj_prefix"`
}

func (s SMTP) AsSMTPConfig() notifier.SMTPConfig {
	return notifier.SMTPConfig{
		Addr:       s.Addr,
		From:       s.From,
		To:         s.To,
		User:       s.User,
		Password:   s.Password,
		UseTLS:     s.UseTLS,
		Timeout:    s.Timeout,
		SubjPrefix: s.SubjPrefix,
	}
}

type Notify struct {
	RearmOnSendFailure bool `mapstructure:"rearm_on_send_failure"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Config struct {
	App      App      `mapstructure:"app"`
	Server   Server   `mapstructure:"server"`
	Upstream Upstream `mapstructure:"upstream"`
	Fetch    Fetch    `mapstructure:"fetch"`
	Monitor  Monitor  `mapstructure:"monitor"`
	SMTP     SMTP     `mapstructure:"smtp"`
	Notify   Notify   `mapstructure:"notify"`
	Log      Log      `mapstructure:"log"`
	OTEL     OTEL     `mapstructure:"otel"`
}
