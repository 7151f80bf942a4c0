package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Storefront/internal/admin"
	"Storefront/internal/catalog"
	"Storefront/internal/config"
	"Storefront/internal/forms"
	"Storefront/internal/notify"
	"Storefront/internal/query"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := kit.NewLogger(storefront.ServiceName, kit.LogConfig{Level: cfg.LogLevel, File: cfg.LogFile})
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	src, closeSrc, err := buildSource(ctx, cfg, log)
	if err != nil {
		log.Fatal("catalog source", zap.Error(err))
	}
	defer closeSrc()

	reg := prometheus.NewRegistry()
	store := catalog.NewStore(src,
		catalog.WithLogger(log.Named("catalog")),
		catalog.WithMetrics(catalog.NewMetrics(reg)),
	)
	log.Info("catalog warmed up", zap.Int("products", len(store.LoadAll(ctx))))

	var picker *query.Picker
	if cfg.PickSeed != 0 {
		picker = query.NewPicker(cfg.PickSeed)
	}
	cat := storefront.NewCatalog(store, picker)

	var tokens *admin.TokenMaker
	if cfg.AdminJWTSecret != "" {
		tokens = admin.NewTokenMaker(cfg.AdminJWTSecret)
	} else {
		log.Warn("ADMIN_JWT_SECRET not set, cache invalidation endpoint disabled")
	}

	s := &storefront.Server{
		Catalog: cat,
		Forms:   buildForms(cfg, cat, log),
		Tokens:  tokens,
		SiteURL: cfg.SiteURL,
		Log:     log,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        storefront.ServiceName,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsToken != "",
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.Source, func(), error) {
	noop := func() {}

	switch cfg.CatalogSource {
	case config.SourceS3:
		s3src, err := catalog.NewS3Source(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix, log)
		if err != nil {
			return nil, noop, err
		}
		if !cfg.CatalogFallback {
			return s3src, noop, nil
		}
		return catalog.NewFallbackSource(s3src, catalog.NewDirSource(cfg.CatalogDir), log), noop, nil

	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		pg := catalog.NewPostgresSource(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ensure schema: %w", err)
		}
		return pg, pool.Close, nil

	default:
		log.Info("serving catalog from directory", zap.String("dir", cfg.CatalogDir))
		return catalog.NewDirSource(cfg.CatalogDir), noop, nil
	}
}

func buildForms(cfg *config.Config, products forms.ProductLookup, log *zap.Logger) *forms.Server {
	var mailer notify.Mailer = notify.NewLogMailer(log)
	if cfg.SMTPEnabled() {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			To:       cfg.MailTo,
		})
	}

	var visits notify.VisitLogger = notify.NewLogVisitLogger(log)
	if cfg.TelegramEnabled() {
		tg := notify.NewClient(nil, notify.DefaultBreakerConfig("telegram"), log)
		visits = notify.NewTelegramLogger(tg, "", cfg.TelegramBotToken, cfg.TelegramChatID)
	}

	geo := notify.NewIPWhoIs(notify.NewClient(nil, notify.DefaultBreakerConfig("ipwhois"), log), cfg.GeoURL)

	var limiter *kit.IPRateLimiter
	if cfg.FormsRateLimit > 0 {
		limiter = kit.NewIPRateLimiter(cfg.FormsRateLimit, cfg.FormsRateWindow, kit.TrustForwardedFor(cfg.TrustProxy))
	}

	return &forms.Server{
		Products: products,
		Mailer:   mailer,
		Visits:   visits,
		Geo:      geo,
		Limiter:  limiter,
		Log:      log.Named("forms"),
		SiteURL:  cfg.SiteURL,
	}
}
