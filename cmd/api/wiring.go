package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"session-analytics-service/internal/config"
	"session-analytics-service/internal/kv"
	"session-analytics-service/internal/logging"
	"session-analytics-service/internal/stream"
	"session-analytics-service/internal/stream/memory"
	natsstream "session-analytics-service/internal/stream/nats"

	cubeHttp "session-analytics-service/internal/cube/adapters/http/fiber"
	"session-analytics-service/internal/cube/core/binner"
	cubeUsecase "session-analytics-service/internal/cube/core/usecase"

	eventsRepoBadger "session-analytics-service/internal/events/adapters/badger"
	eventsCache "session-analytics-service/internal/events/adapters/cache"
	eventsHttp "session-analytics-service/internal/events/adapters/http/fiber"
	eventsRepoPg "session-analytics-service/internal/events/adapters/postgres"
	eventsDomain "session-analytics-service/internal/events/core/domain"
	eventsPorts "session-analytics-service/internal/events/core/ports"
	eventsUsecase "session-analytics-service/internal/events/core/usecase"

	searchHttp "session-analytics-service/internal/search/adapters/http/fiber"
	searchDomain "session-analytics-service/internal/search/core/domain"
	searchUsecase "session-analytics-service/internal/search/core/usecase"

	sessionsRepoBadger "session-analytics-service/internal/sessions/adapters/badger"
	sessionsHttp "session-analytics-service/internal/sessions/adapters/http/fiber"
	sessionsRepoPg "session-analytics-service/internal/sessions/adapters/postgres"
	sessionsPorts "session-analytics-service/internal/sessions/core/ports"
	sessionsUsecase "session-analytics-service/internal/sessions/core/usecase"
	"session-analytics-service/internal/sessions/core/window"
)

const badgerGCInterval = 5 * time.Minute

type stores struct {
	events   eventsPorts.EventRepositoryPort
	sessions sessionsPorts.SessionRepositoryPort
	groups   sessionsPorts.GroupEventRepositoryPort
	close    func() error
	// background upkeep, nil when the backend needs none
	maintain func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	log := logging.FromContext(ctx)

	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}

		// Adapter-level DB wrappers
		eventsDB := eventsRepoPg.NewSQLDB(db)
		sessionsDB := sessionsRepoPg.NewSQLDB(db)

		log.Info("Using postgres store")
		return &stores{
			events:   eventsRepoPg.NewEventRepository(eventsDB),
			sessions: sessionsRepoPg.NewSessionRepository(sessionsDB),
			groups:   sessionsRepoPg.NewGroupEventRepository(sessionsDB),
			close:    db.Close,
		}, nil

	case config.StoreBackendBadger:
		db, err := kv.Open(cfg.Badger.Path, log.Named("badger"))
		if err != nil {
			return nil, fmt.Errorf("failed to open badger at %s: %w", cfg.Badger.Path, err)
		}
		repo := sessionsRepoBadger.NewRepository(db)

		log.Infow("Using badger store", "path", cfg.Badger.Path)
		return &stores{
			events:   eventsRepoBadger.NewEventRepository(db),
			sessions: repo,
			groups:   repo,
			close:    db.Close,
			maintain: func(ctx context.Context) error {
				tk := time.NewTicker(badgerGCInterval)
				defer tk.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-tk.C:
						if err := kv.GC(db); err != nil {
							log.Warnw("Badger value log GC failed", "error", err)
						}
					}
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidStoreBackend, cfg.Store.Backend)
	}
}

type eventStream interface {
	stream.Source
	Publish(ctx context.Context, id uint64) error
	Published() uint64
	Close() error
}

func openStream(ctx context.Context, cfg *config.Config) (eventStream, error) {
	log := logging.FromContext(ctx)

	switch cfg.Stream.Backend {
	case config.StreamBackendMemory:
		return memory.New(cfg.Stream.BufferSize), nil
	case config.StreamBackendNATS:
		return natsstream.Connect(cfg.NATS.URL, cfg.NATS.Subject, cfg.Stream.BufferSize, log.Named("nats"))
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidStreamBackend, cfg.Stream.Backend)
	}
}

// progress joins the producer and consumer side counters for /status.
type progress struct {
	stream   eventStream
	consumer *stream.Consumer
}

func (p progress) Published() uint64 { return p.stream.Published() }
func (p progress) Processed() uint64 { return p.consumer.Processed() }

type service struct {
	app      *fiber.App
	window   *window.Manager
	consumer *stream.Consumer
	ticker   *stream.Ticker
}

func newService(ctx context.Context, cfg *config.Config, st *stores, es eventStream) (*service, error) {
	log := logging.FromContext(ctx)

	// Repositories
	eventRepository, err := eventsCache.NewEventRepository(st.events, cfg.EventCache.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create event cache: %w", err)
	}

	// Core
	index := searchDomain.NewIndex()
	manager := window.NewManager(st.sessions,
		window.WithTimeout(cfg.Session.Timeout),
		window.WithLogger(log.Named("window")),
	)

	// Usecases
	storeEventUC := eventsUsecase.NewStoreEventUseCase(eventRepository, es, eventsDomain.NewIDAllocator(nil))
	getEventUC := eventsUsecase.NewGetEventUseCase(eventRepository)
	dispatchUC := sessionsUsecase.NewDispatchUseCase(eventRepository, st.groups, manager, index, log.Named("dispatch"))
	browseUC := sessionsUsecase.NewBrowseUseCase(st.groups, eventRepository, time.Now)
	listSessionsUC := sessionsUsecase.NewListSessionsUseCase(manager)
	searchUC := searchUsecase.NewSearchUseCase(index, cfg.OutputURIPrefix)
	exportCubeUC := cubeUsecase.NewExportCubeUseCase(st.sessions, binner.New(cfg.Binner.K, cfg.Binner.M, cfg.Binner.N), log.Named("cube"))
	exportInsightsUC := cubeUsecase.NewExportInsightsUseCase(st.sessions)

	// Stream
	consumer := stream.NewConsumer(es, dispatchUC,
		stream.WithLogger(log.Named("consumer")),
		stream.WithPermanentErrors(sessionsUsecase.ErrStreamContract),
	)
	ticker := stream.NewTicker(cfg.Tick.Interval, storeEventUC, log.Named("ticker"))

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		AppName:               "session-analytics-service",
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			log.Errorw("Unhandled request error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
		},
	})

	// events endpoints
	eventsHandler := eventsHttp.NewEventHandler(storeEventUC, getEventUC, cfg.OutputURIPrefix)
	app.Post("/events", eventsHandler.CreateEvent)
	app.Post("/events/bulk", eventsHandler.BulkCreateEvents)
	app.Get("/e", eventsHandler.GetEvent)

	// session endpoints
	sessionsHandler := sessionsHttp.NewSessionHandler(browseUC, listSessionsUC, progress{stream: es, consumer: consumer}, manager, cfg.OutputURIPrefix)
	app.Get("/g", sessionsHandler.Groups)
	app.Get("/s", sessionsHandler.Sessions)
	app.Get("/status", sessionsHandler.Status)

	// export endpoints
	cubeHandler := cubeHttp.NewCubeHandler(exportCubeUC, exportInsightsUC)
	app.Get("/c", cubeHandler.ExportCube)
	app.Get("/i", cubeHandler.ExportInsights)

	// search
	searchHandler := searchHttp.NewSearchHandler(searchUC)
	app.Get("/", searchHandler.Search)

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	return &service{app: app, window: manager, consumer: consumer, ticker: ticker}, nil
}
