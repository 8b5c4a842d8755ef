package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/codenest/ahem"
	"github.com/codenest/ahem/pkg/config"
	"github.com/codenest/ahem/pkg/httpserver"
	"github.com/codenest/ahem/pkg/logger"
	"github.com/codenest/ahem/pkg/settings"
)

type serveConfig struct {
	Backend       string        `env:"AHEM_BACKEND" envDefault:"memory"`
	PruneInterval time.Duration `env:"AHEM_PRUNE_INTERVAL" envDefault:"10m"`
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Run the demo notice server",
		UsageText: "ahem serve [--backend memory|cookie|session|redis|postgres|sqlite|mongo] [--addr :8080]",
		Description: `Serves a page that lists pending notices and a form that flashes new ones.

Backends read their connection settings from the environment (REDIS_URL,
PG_CONN_URL, SQLITE_PATH, MONGODB_URL, COOKIE_SECRETS). The settings file
is watched and reloaded on change.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "flash backend",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address",
			},
		},
		Action: serve,
	}
}

func serve(ctx context.Context, c *cli.Command) error {
	var (
		logCfg      logger.Config
		httpCfg     httpserver.Config
		settingsCfg settings.Config
		cfg         serveConfig
	)
	if err := errors.Join(
		config.Load(&logCfg),
		config.Load(&httpCfg),
		config.Load(&settingsCfg),
		config.Load(&cfg),
	); err != nil {
		return err
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("addr") {
		httpCfg.Addr = c.String("addr")
	}
	if file := c.String("settings"); file != "" {
		settingsCfg.File = file
	}

	log, err := logger.NewFromConfig(logCfg, logger.WithContextValue("request_id", middleware.RequestIDKey))
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	resolver, err := settings.NewFromConfig(settingsCfg)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg.Backend, log)
	if err != nil {
		return err
	}

	opts := []ahem.ProviderOption{ahem.WithProviderLogger(log)}
	if b.shared {
		opts = append(opts, ahem.WithScope(clientScope))
	}
	provider := ahem.NewProvider(resolver, b.fn, opts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if settingsCfg.File != "" {
		go func() {
			err := provider.WatchSettings(ctx, settingsCfg.File,
				settings.WithStoreKey(settingsCfg.StoreKey),
				settings.WithHeadingKey(settingsCfg.HeadingKey),
			)
			if err != nil {
				log.Error("settings watcher stopped", "file", settingsCfg.File, logger.Error(err))
			}
		}()
	}
	go b.pruneLoop(ctx, cfg.PruneInterval, log)

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("flash backend ready", logger.Backend(b.name), logger.NoticeTypes(provider.Resolver().DefaultTypes()))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			cancel()
			b.close(l)
		}),
	)
	return srv.Run(ctx, newRouter(provider, b, log))
}
