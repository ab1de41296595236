package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"soknadpdf/internal/archive"
	"soknadpdf/internal/archive/store/memory"
	"soknadpdf/internal/archive/store/postgres"
	"soknadpdf/internal/innsending/clients"
	"soknadpdf/internal/innsending/pdf"
	"soknadpdf/internal/innsending/storage"
	"soknadpdf/internal/innsending/supplier"
	"soknadpdf/internal/need"
	"soknadpdf/internal/need/skiplist"
	"soknadpdf/internal/platform/config"
	"soknadpdf/internal/platform/httpclient"
	"soknadpdf/internal/platform/httpserver"
	"soknadpdf/internal/platform/kafka/consumer"
	"soknadpdf/internal/platform/kafka/producer"
	"soknadpdf/internal/platform/logger"
	"soknadpdf/internal/platform/metrics"
	"soknadpdf/internal/platform/redis"
	"soknadpdf/internal/submission/render"
	"soknadpdf/pkg/platform/circuit"
)

// main wires the need consumer, its collaborators and the platform HTTP endpoints.
// Business logic lives in internal/need and internal/submission.
func main() {
	if err := run(); err != nil {
		slog.Error("soknadpdf stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	secureOut, err := logger.OpenSecure(cfg.Log.SecurePath)
	if err != nil {
		return err
	}
	defer secureOut.Close()
	secureLog, err := logger.NewSecure(secureOut, cfg.Log.Level)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	checks := map[string]httpserver.Check{}

	// Upstream clients
	soknadHTTP := httpclient.New(ctx, cfg.OAuth, cfg.OAuth.SoknadScope, cfg.Clients.Timeout)
	pdlHTTP := httpclient.New(ctx, cfg.OAuth, cfg.OAuth.PDLScope, cfg.Clients.Timeout)
	storageHTTP := httpclient.New(ctx, cfg.OAuth, cfg.OAuth.MellomlagringScope, cfg.Clients.Timeout)
	converterHTTP := httpclient.New(ctx, config.OAuth{}, "", cfg.Converter.Timeout)

	soknad, err := clients.NewSoknad(cfg.Clients.SoknadURL, soknadHTTP, clients.WithSoknadLogger(log))
	if err != nil {
		return err
	}
	pdl, err := clients.NewPDL(cfg.Clients.PDLURL, pdlHTTP)
	if err != nil {
		return err
	}
	personBreaker := circuit.New("person",
		circuit.WithFailureThreshold(cfg.Clients.PersonFailures),
		circuit.WithSuccessThreshold(cfg.Clients.PersonRecoveries),
	)
	sup, err := supplier.New(soknad, pdl,
		supplier.WithLogger(log),
		supplier.WithSecureLogger(secureLog),
		supplier.WithMetrics(m),
		supplier.WithPersonBreaker(personBreaker),
	)
	if err != nil {
		return err
	}
	checks["pdl"] = sup.Health
	engine, err := render.New(render.WithLogger(log))
	if err != nil {
		return err
	}
	converter, err := pdf.New(cfg.Converter.URL, converterHTTP)
	if err != nil {
		return err
	}
	documents, err := storage.New(ctx, cfg.Storage, storageHTTP)
	if err != nil {
		return err
	}
	if c, ok := documents.(io.Closer); ok {
		defer c.Close()
	}

	// Receipts
	var receipts archive.Store = memory.New()
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		store := postgres.New(db)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		receipts = store
		checks["postgres"] = db.PingContext
	} else {
		log.Warn("no database configured, archive receipts are kept in memory")
	}

	// Skip list
	skipOpts := []skiplist.Option{}
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		skipOpts = append(skipOpts, skiplist.WithRedis(redisClient, skiplist.DefaultKey))
		checks["redis"] = redisClient.Health
	}
	skip := skiplist.New(cfg.SkipSubmissions, skipOpts...)

	// Message bus
	producerClient, err := producer.NewClient(cfg.Kafka)
	if err != nil {
		return err
	}
	defer producerClient.Close()
	publisher, err := producer.New(producerClient, cfg.Kafka.Topic)
	if err != nil {
		return err
	}

	archiver, err := need.NewArchiver(converter, documents, receipts, publisher,
		need.WithLogger(log),
		need.WithSecureLogger(secureLog),
		need.WithMetrics(m),
		need.WithSkipList(skip),
	)
	if err != nil {
		return err
	}
	archiveSolver, err := need.NewArchiveSolver(sup, engine, archiver)
	if err != nil {
		return err
	}
	payloadSolver, err := need.NewPayloadSolver(archiver)
	if err != nil {
		return err
	}
	reportSolver, err := need.NewReportSolver(engine, archiver)
	if err != nil {
		return err
	}
	router := need.NewRouter(log)
	router.Register(need.ArchivableSubmission, archiveSolver)
	router.Register(need.GenerateAndStorePDF, payloadSolver)
	router.Register(need.StoreReport, reportSolver)

	consumerClient, err := consumer.NewClient(cfg.Kafka)
	if err != nil {
		return err
	}
	c, err := consumer.New(consumerClient, router, consumer.WithLogger(log))
	if err != nil {
		return err
	}
	defer c.Close()
	checks["kafka"] = c.Health

	srv := httpserver.New(cfg.Server.Addr, httpserver.NewRouter(prometheus.DefaultGatherer, checks))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting soknadpdf", "addr", cfg.Server.Addr, "topic", cfg.Kafka.Topic)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// A failed need stops consumption without committing it, so the pod
		// restarts and the need is redelivered.
		return c.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
