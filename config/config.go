package config

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/benz9527/xlist/lib/infra"
	"github.com/benz9527/xlist/lib/list"
	"github.com/benz9527/xlist/observability"
	"github.com/benz9527/xlist/session"
	"github.com/benz9527/xlist/xlog"
)

const (
	DefaultConfigName = "xlist"
	EnvPrefix         = "XLIST"
)

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Playground PlaygroundConfig `yaml:"playground"`
	Session    SessionConfig    `yaml:"session"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Timing     TimingConfig     `yaml:"timing"`
}

type LogConfig struct {
	Level        string `yaml:"level"`
	Encoder      string `yaml:"encoder"`
	LevelEncoder string `yaml:"levelEncoder"`
	TimeEncoder  string `yaml:"timeEncoder"`
}

type PlaygroundConfig struct {
	Variant string `yaml:"variant"`
	// TraverseBound caps the drawn values of a circular list, 0 draws them all.
	TraverseBound int64 `yaml:"traverseBound"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
}

type SessionConfig struct {
	Backend     string        `yaml:"backend"`
	Redis       RedisConfig   `yaml:"redis"`
	TTL         time.Duration `yaml:"ttl"`
	Challenge   time.Duration `yaml:"challenge"`
	Leaderboard string        `yaml:"leaderboard"`
}

type MetricsConfig struct {
	Exporter string        `yaml:"exporter"`
	Interval time.Duration `yaml:"interval"`
	// Listen is the address serving /metrics for the prometheus exporter.
	Listen string `yaml:"listen"`
}

type TimingConfig struct {
	Sizes   []int `yaml:"sizes"`
	Workers int   `yaml:"workers"`
}

var defaults = map[string]any{
	"log.level":                "info",
	"log.encoder":              "plaintext",
	"log.levelEncoder":         "capital",
	"log.timeEncoder":          "iso8601",
	"playground.variant":       list.Singly.String(),
	"playground.traverseBound": 32,
	"session.backend":          string(session.MemoryBackend),
	"session.redis.addr":       "127.0.0.1:6379",
	"session.redis.db":         0,
	"session.redis.password":   "",
	"session.ttl":              "30m",
	"session.challenge":        "60s",
	"session.leaderboard":      session.MemoryLeaderboardDSN,
	"metrics.exporter":         string(observability.NoneExporter),
	"metrics.interval":         "10s",
	"metrics.listen":           "127.0.0.1:9464",
	"timing.sizes":             []int{100, 1_000, 10_000},
	"timing.workers":           len(list.Variants()),
}

func decoderOpt(cfg *mapstructure.DecoderConfig) {
	cfg.ErrorUnused = true
	cfg.TagName = "yaml"
	cfg.WeaklyTypedInput = true
}

// Source is a loaded configuration which can be watched for changes.
type Source struct {
	v    *viper.Viper
	file string
	once sync.Once
}

// Load reads the file at path. An empty path looks for xlist.yaml in
// the working directory and falls back to the defaults if there is none.
// Environment variables prefixed by XLIST override the file,
// i.e. XLIST_LOG_LEVEL=debug.
func Load(path string) (*Source, *Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(path) > 0 {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if len(path) > 0 || !errors.As(err, &notFound) {
			return nil, nil, infra.WrapErrorStackWithMessage(err, "[config] failed to read config")
		}
	}

	s := &Source{v: v, file: v.ConfigFileUsed()}
	cfg, err := s.decode()
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func (s *Source) decode() (*Config, error) {
	cfg := new(Config)
	if err := s.v.Unmarshal(cfg, decoderOpt); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[config] failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// File returns the config file in use, empty when running on defaults.
func (s *Source) File() string {
	return s.file
}

// Watch calls fn with the reloaded config every time the file changes.
// Nothing is watched when no file is in use, Watch reports false then.
func (s *Source) Watch(fn func(cfg *Config, err error)) bool {
	if s.file == "" || fn == nil {
		return false
	}
	s.once.Do(func() {
		s.v.OnConfigChange(func(e fsnotify.Event) {
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				return
			}
			fn(s.decode())
		})
		s.v.WatchConfig()
	})
	return true
}

func (cfg *Config) Validate() error {
	var merr error
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		merr = multierr.Append(merr, infra.NewErrorStack("[config] unknown log.level "+cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Encoder) {
	case "json", "plaintext", "console":
	default:
		merr = multierr.Append(merr, infra.NewErrorStack("[config] unknown log.encoder "+cfg.Log.Encoder))
	}
	if _, err := xlog.ParseLevelEncoder(cfg.Log.LevelEncoder); err != nil {
		merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(err, "[config] log.levelEncoder "+cfg.Log.LevelEncoder))
	}
	if _, err := xlog.ParseTimeEncoder(cfg.Log.TimeEncoder); err != nil {
		merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(err, "[config] log.timeEncoder "+cfg.Log.TimeEncoder))
	}
	if _, err := list.ParseVariant(cfg.Playground.Variant); err != nil {
		merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(err, "[config] playground.variant "+cfg.Playground.Variant))
	}
	if cfg.Playground.TraverseBound < 0 {
		merr = multierr.Append(merr, infra.NewErrorStack("[config] negative playground.traverseBound"))
	}
	if _, err := session.ParseBackend(cfg.Session.Backend); err != nil {
		merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(err, "[config] session.backend "+cfg.Session.Backend))
	}
	if cfg.Session.TTL < 0 || cfg.Session.Challenge < 0 {
		merr = multierr.Append(merr, infra.NewErrorStack("[config] negative session duration"))
	}
	if _, err := observability.ParseExporterType(cfg.Metrics.Exporter); err != nil {
		merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(err, "[config] metrics.exporter "+cfg.Metrics.Exporter))
	}
	for _, size := range cfg.Timing.Sizes {
		if size <= 0 {
			merr = multierr.Append(merr, infra.NewErrorStack("[config] timing.sizes must be positive"))
			break
		}
	}
	return merr
}
