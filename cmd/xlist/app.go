package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xlist/config"
	"github.com/benz9527/xlist/lib/infra"
	"github.com/benz9527/xlist/lib/list"
	"github.com/benz9527/xlist/observability"
	"github.com/benz9527/xlist/playground"
	"github.com/benz9527/xlist/session"
	"github.com/benz9527/xlist/timing"
	"github.com/benz9527/xlist/xlog"
)

const sessionIDContextKey = "sid"

type banner struct{}

func (banner) JSON() string {
	return `{"app":"xlist","about":"singly, doubly and circular linked list playground"}`
}

func (banner) PlainText() string {
	return "xlist, the singly, doubly and circular linked list playground"
}

func provideConfig(flags *cliFlags) (*config.Source, *config.Config, error) {
	return config.Load(flags.config)
}

func provideLogger(lc fx.Lifecycle, src *config.Source, cfg *config.Config) (xlog.XLogger, error) {
	lvlEnc, err := xlog.ParseLevelEncoder(cfg.Log.LevelEncoder)
	if err != nil {
		return nil, err
	}
	tsEnc, err := xlog.ParseTimeEncoder(cfg.Log.TimeEncoder)
	if err != nil {
		return nil, err
	}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.Log.Level)),
		xlog.WithXLoggerEncoder(xlog.ParseLogEncoder(cfg.Log.Encoder)),
		xlog.WithXLoggerLevelEncoder(lvlEnc),
		xlog.WithXLoggerTimeEncoder(tsEnc),
		xlog.WithXLoggerWriter(os.Stderr),
		xlog.WithXLoggerContextFieldExtract(sessionIDContextKey),
	)
	src.Watch(func(newCfg *config.Config, err error) {
		if err != nil {
			logger.ErrorStack(err, "reload config failed")
			return
		}
		lvl, err := zapcore.ParseLevel(strings.ToLower(newCfg.Log.Level))
		if err != nil {
			return
		}
		logger.IncreaseLogLevel(lvl)
		logger.Info("log level reloaded", zap.String("level", logger.Level()))
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

func newFxLogger(logger xlog.XLogger) fxevent.Logger {
	return xlog.NewFxXLogger(logger)
}

func provideStats(lc fx.Lifecycle, cfg *config.Config, logger xlog.XLogger) (*observability.PlaygroundStats, error) {
	typ, err := observability.ParseExporterType(cfg.Metrics.Exporter)
	if err != nil {
		return nil, err
	}
	shutdown, err := observability.InitMetricsExporter(typ, cfg.Metrics.Interval)
	if err != nil {
		return nil, err
	}
	observability.InitAppStats("xlist")

	var srv *http.Server
	if typ == observability.PrometheusExporter {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if srv == nil {
				return nil
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.ErrorStackf(infra.WrapErrorStack(err), "metrics server %s exited", srv.Addr)
				}
			}()
			logger.Info("metrics served", zap.String("addr", "http://"+srv.Addr+"/metrics"))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var es infra.ErrorStack
			if srv != nil {
				es = infra.AppendErrorStack(es, srv.Shutdown(ctx), "[metrics] shutdown")
			}
			if es = infra.AppendErrorStack(es, shutdown(ctx), "[metrics] shutdown"); es != nil {
				return es
			}
			return nil
		},
	})
	return observability.NewPlaygroundStats(nil), nil
}

func provideStore(lc fx.Lifecycle, cfg *config.Config, logger xlog.XLogger) (session.Store, error) {
	backend, err := session.ParseBackend(cfg.Session.Backend)
	if err != nil {
		return nil, err
	}
	var store session.Store
	switch backend {
	case session.RedisBackend:
		redis.SetLogger(xlog.NewGoRedisXLogger(logger))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err = session.DialRedisStore(ctx,
			cfg.Session.Redis.Addr,
			cfg.Session.Redis.Password,
			cfg.Session.Redis.DB,
			session.WithRedisStoreTTL(cfg.Session.TTL),
		)
		if err != nil {
			return nil, err
		}
	default:
		store = session.NewMemoryStore()
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func provideSession(lc fx.Lifecycle, store session.Store, logger xlog.XLogger) (*session.Session, error) {
	sess, err := session.Open(context.Background(), store, session.WithSessionLogger(logger))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sess.Close(ctx)
		},
	})
	return sess, nil
}

func provideLeaderboard(lc fx.Lifecycle, cfg *config.Config, logger xlog.XLogger) (*session.Leaderboard, error) {
	board, err := session.OpenLeaderboard(cfg.Session.Leaderboard, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return board.Close()
		},
	})
	return board, nil
}

func providePlayground(
	cfg *config.Config,
	logger xlog.XLogger,
	stats *observability.PlaygroundStats,
	sess *session.Session,
) (*playground.Playground, error) {
	variant, err := list.ParseVariant(cfg.Playground.Variant)
	if err != nil {
		return nil, err
	}
	return playground.New(variant,
		playground.WithLogger(logger.Named("playground")),
		playground.WithStats(stats),
		playground.WithSession(sess),
		playground.WithTraverseBound(cfg.Playground.TraverseBound),
	)
}

func provideChallenge(cfg *config.Config) *session.Challenge {
	return session.NewChallenge(cfg.Session.Challenge, challengePoints)
}

func provideDemo(cfg *config.Config, logger xlog.XLogger) *timing.Demo {
	return timing.NewDemo(
		timing.WithDemoSizes(cfg.Timing.Sizes...),
		timing.WithDemoWorkers(cfg.Timing.Workers),
		timing.WithDemoLogger(logger.Named("timing")),
	)
}

func baseModule(flags *cliFlags) fx.Option {
	return fx.Options(
		fx.Supply(flags),
		fx.Provide(provideConfig, provideLogger),
		fx.WithLogger(newFxLogger),
		fx.Invoke(func(logger xlog.XLogger) {
			logger.Banner(banner{})
		}),
	)
}

func replModule(flags *cliFlags) fx.Option {
	return fx.Options(
		baseModule(flags),
		fx.Provide(
			provideStats,
			provideStore,
			provideSession,
			provideLeaderboard,
			provideChallenge,
			session.LoadQuiz,
			providePlayground,
			newREPL,
		),
	)
}

func benchModule(flags *cliFlags) fx.Option {
	return fx.Options(
		baseModule(flags),
		fx.Provide(provideDemo),
	)
}
