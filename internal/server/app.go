// Package server wires the configured stores, services and transports and
// runs the HTTP and gRPC servers until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/config"
	"github.com/dmitrijs2005/gophsession/internal/server/events"
	"github.com/dmitrijs2005/gophsession/internal/server/metrics"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsession/internal/server/rest"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"github.com/dmitrijs2005/gophsession/internal/server/telemetry"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/gophsession/internal/server/grpc"
)

const serviceName = "gophsession"

type App struct {
	config         *config.Config
	logger         logging.Logger
	repos          repomanager.RepositoryManager
	bus            *events.Bus
	metrics        *metrics.Collectors
	sessionService *services.SessionService
	userService    *services.UserService
	authenticator  *services.Authenticator
	stopTelemetry  telemetry.Shutdown
}

// openRepositories picks the user store by c.Storage and optionally moves
// sessions to Redis.
func openRepositories(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	var base repomanager.RepositoryManager
	switch c.Storage {
	case config.StorageMemory:
		base = repomanager.NewMemoryRepositoryManager()
	default:
		pm, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		base = pm
	}

	if c.SessionBackend != config.SessionBackendRedis {
		return base, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("redis: %w", err), rdb.Close(), base.Close())
	}
	return repomanager.NewRedisSessionsManager(base, rdb, c.RedisPrefix), nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, c.LogFormat, os.Stdout)

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret key: %w", err)
		}
		c.SecretKey = key
		logger.Warn(ctx, "No secret key configured, using a random one; tokens will not survive a restart")
	}

	repos, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var publisher events.Publisher = events.Nop{}
	var bus *events.Bus
	if c.NatsURL != "" {
		bus, err = events.New(c.NatsURL, nats.Name(serviceName))
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("nats: %w", err)
		}
		publisher = bus
	}

	stopTelemetry, err := telemetry.Init(ctx, serviceName, c.OTLPEndpoint)
	if err != nil {
		bus.Close()
		_ = repos.Close()
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	hasher := auth.NewBcryptHasher(c.BcryptCost)
	codec := auth.NewJWTCodec([]byte(c.SecretKey), c.TokenValidityDuration)

	sessionService := services.NewSessionService(repos.Users(), repos.Sessions(), hasher, codec, publisher, logger,
		services.WithSessionTx(repos.SessionsTx))
	authenticator := services.NewAuthenticator(repos.Users(), repos.Sessions(), codec,
		services.RequireActiveSession(c.RequireActiveSession))

	return &App{
		config:         c,
		logger:         logger,
		repos:          repos,
		bus:            bus,
		metrics:        metrics.New(),
		sessionService: sessionService,
		userService:    services.NewUserService(repos.Users(), hasher, logger),
		authenticator:  authenticator,
		stopTelemetry:  stopTelemetry,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) httpServer() *rest.Server {
	router := rest.NewRouter(rest.Deps{
		Sessions: app.sessionService,
		Users:    app.userService,
		Auth:     app.authenticator,
		Health:   app.repos,
		Metrics:  app.metrics,
		Logger:   app.logger,
	}, rest.Options{
		AllowedOrigins: app.config.AllowedOrigins,
		RateLimit:      app.config.RateLimit,
		RateWindow:     app.config.RateLimitWindow,
		Tracing:        app.config.OTLPEndpoint != "",
	})
	return rest.NewServer(app.config.EndpointAddrHTTP, router, app.logger)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.sessionService, app.userService, app.authenticator, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	if app.config.EndpointAddrHTTP != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc)
		}()
	}

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}

// Close releases stores, the event bus and the tracer provider.
func (app *App) Close(ctx context.Context) error {
	app.bus.Close()
	return errors.Join(app.stopTelemetry(ctx), app.repos.Close())
}
