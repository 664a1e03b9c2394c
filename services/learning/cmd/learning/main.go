package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/learning-platform/internal/platform/auth"
	"github.com/example/learning-platform/internal/platform/db"
	"github.com/example/learning-platform/internal/platform/events"
	"github.com/example/learning-platform/internal/platform/httpserver"
	"github.com/example/learning-platform/internal/platform/logging"
	"github.com/example/learning-platform/internal/platform/natsconn"
	"github.com/example/learning-platform/internal/platform/run"
	"github.com/example/learning-platform/internal/platform/signing"
	"github.com/example/learning-platform/services/learning/internal/catalog"
	"github.com/example/learning-platform/services/learning/internal/config"
	"github.com/example/learning-platform/services/learning/internal/gate"
	"github.com/example/learning-platform/services/learning/internal/handlers"
	"github.com/example/learning-platform/services/learning/internal/player"
	"github.com/example/learning-platform/services/learning/internal/progress"
	"github.com/example/learning-platform/services/learning/internal/users"
	"github.com/example/learning-platform/services/learning/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, "learning")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	catalogStore, progressStore, userStore, ready, closeStores := initStores(cfg, log)
	if closeStores != nil {
		defer closeStores()
	}

	// NATS is optional: without it events are dropped and positions are
	// persisted only through the seed-on-open path.
	var nc *nats.Conn
	var js nats.JetStreamContext
	if cfg.NATSURL != "" {
		nc, err = natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
		if err != nil {
			log.Warn("nats connect failed, events disabled", zap.Error(err))
		} else if js, err = nc.JetStream(); err != nil {
			log.Warn("jetstream unavailable, events disabled", zap.Error(err))
			js = nil
		}
	}
	pub := events.New(js, log)

	// Without JetStream the publisher drops position saves, so the guard
	// writes them straight to the store; reopen seeding depends on it.
	var saver player.PositionSaver = pub
	if js == nil {
		log.Info("no broker: saving positions directly to the progress store")
		saver = player.NewStoreSaver(progressStore, log)
	}

	sessions := player.NewManager(cfg.Guard, pub, saver, progressStore, log)
	g := gate.New(catalogStore, progressStore, pub, log)

	var signer *signing.Signer
	if cfg.PlaybackSigningSecret != "" {
		signer = signing.New(cfg.PlaybackSigningSecret)
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: ready})
	handlers.Routes(r, handlers.Deps{
		Catalog:  catalogStore,
		Progress: progressStore,
		Sessions: sessions,
		Gate:     g,
		Users: users.Service{
			Store:    userStore,
			Secret:   cfg.JWTSecret,
			TokenTTL: cfg.TokenTTL,
		},
		Verifier:     auth.JWTVerifier{Secret: cfg.JWTSecret},
		Signer:       signer,
		DeliveryBase: cfg.DeliveryBase,
		GuardConfig:  cfg.Guard,
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTPAddr, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		if nc != nil {
			go worker.StartPositionConsumer(ctx, nc, progressStore, log)
			defer nc.Close()
		}
		go func() {
			<-ctx.Done()
			runner.Graceful(srv.Shutdown)
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the persistence backends from PROGRESS_DRIVER. The
// sqlite driver backs watch progress only; catalog and accounts stay
// in-memory with it.
func initStores(cfg config.Config, log *zap.Logger) (catalog.Store, progress.Store, users.Store, func() error, func()) {
	switch cfg.ProgressDriver {
	case config.DriverPostgres:
		pool, err := db.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres open", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Info("stores: postgres")
		ready := func() error { return pool.Ping(context.Background()) }
		return catalog.NewPostgresStore(pool), progress.NewPostgresStore(pool), users.PostgresStore{DB: pool}, ready, pool.Close

	case config.DriverSQLite:
		store, err := progress.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Error("sqlite open", zap.Error(err), zap.String("path", cfg.SQLitePath))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Info("stores: sqlite progress, in-memory catalog", zap.String("path", cfg.SQLitePath))
		return catalog.NewInMemoryStore(), store, users.NewInMemoryStore(), nil, func() { _ = store.Close() }

	default:
		log.Warn("stores: in-memory (development only)")
		return catalog.NewInMemoryStore(), progress.NewInMemoryStore(), users.NewInMemoryStore(), nil, nil
	}
}
