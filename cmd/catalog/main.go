package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"Streamflix/internal/browse"
	"Streamflix/internal/catalog"
	"Streamflix/internal/query"
	"Streamflix/internal/session"
	"Streamflix/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service, kit.Getenv("LOG_LEVEL", "info"))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := kit.Getenv("PORT", "8082")

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := catalog.Open(loadCtx, sourceConfig())
	cancel()
	if err != nil {
		log.Fatal("load dataset failed", zap.Error(err))
	}

	report := store.Report()
	log.Info("dataset loaded",
		zap.Int("items", report.Items),
		zap.Int("categories", report.Categories),
	)
	if n := report.Dangling(); n > 0 {
		log.Warn("categories reference unknown items",
			zap.Int("dangling", n),
			zap.Any("by_category", report.DanglingIDs),
		)
	}

	reg := prometheus.NewRegistry()
	dangling := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_dangling_ids",
		Help: "Category ids with no matching item, counted at load.",
	}, []string{"category"})
	reg.MustRegister(dangling)
	for category, n := range report.DanglingIDs {
		dangling.WithLabelValues(category).Set(float64(n))
	}

	engine := query.NewEngine(store, query.NewMetrics(reg))
	sessions := session.NewManager(store, engine, session.Config{
		Debounce: kit.GetenvDuration("SEARCH_DEBOUNCE", query.DefaultDebounce),
		TTL:      kit.GetenvDuration("SESSION_TTL", session.DefaultTTL),
		Registry: reg,
		Log:      log,
	})

	s := &browse.Server{
		Store:    store,
		Engine:   engine,
		Sessions: sessions,
		Log:      log,
		Limiter:  kit.NewIPRateLimiter(kit.GetenvFloat("QUERY_RATE", 20), kit.GetenvInt("QUERY_BURST", 40)),
	}

	h := browse.NewHandler(s, browse.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return kit.RunHTTPServer(gctx, ":"+port, h, log) })
	g.Go(func() error { return sessions.Run(gctx, session.DefaultSweepInterval) })

	if err := g.Wait(); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func sourceConfig() catalog.SourceConfig {
	return catalog.SourceConfig{
		Kind:   kit.Getenv("DATASET_SOURCE", catalog.SourceEmbedded),
		Path:   os.Getenv("DATASET_PATH"),
		Bucket: os.Getenv("S3_BUCKET"),
		Key:    kit.Getenv("S3_KEY", "catalog/movies.json"),
		S3: catalog.S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    kit.Getenv("S3_REGION", "eu-central-1"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}
