// Package app wires the coaching client together from a config.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/api"
	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/events"
	"github.com/2beens/fitcoach/internal/nutrition"
	"github.com/2beens/fitcoach/internal/preload"
	"github.com/2beens/fitcoach/internal/progress"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/timer"
	"github.com/2beens/fitcoach/internal/training"
	"github.com/2beens/fitcoach/internal/workout"
	"github.com/2beens/fitcoach/pkg"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

const redisCleanupInterval = 8 * time.Hour

type App struct {
	Config    *config.Config
	Bus       *events.Bus
	API       *api.Client
	Session   *auth.Session
	Programs  *workout.Store
	Resolver  *workout.Resolver
	Calendar  *calendar.Cache
	Nutrition *nutrition.Cache
	Preloader *preload.Preloader
	Recorder  *progress.APIRecorder
	Metrics   *metrics.Manager

	tracingEnabled bool
	tokenStore     auth.TokenStore
	redisClient    *redis.Client
	promRegistry   *prometheus.Registry
	metricsServer  *http.Server
	otelShutdown   func()
	stopCleanup    context.CancelFunc
	unsubscribe    []func()
}

type NewAppParams struct {
	Config                  *config.Config
	RedisPassword           string
	HoneycombTracingEnabled bool

	// TokenStore overrides the configured session backend.
	TokenStore auth.TokenStore
	// HTTPClient overrides the traced client built from the config.
	HTTPClient *http.Client
}

func New(ctx context.Context, params NewAppParams) (_ *App, err error) {
	cfg := params.Config

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitcoach-client")
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:         cfg,
		Bus:            events.NewBus(),
		otelShutdown:   otelShutdown,
		tracingEnabled: params.HoneycombTracingEnabled,
	}
	defer func() {
		if err != nil {
			if closeErr := a.Close(); closeErr != nil {
				log.Errorf("app: close after failed setup: %s", closeErr)
			}
		}
	}()

	a.promRegistry = metrics.SetupPrometheus()
	a.Metrics = metrics.NewManager("fitcoach", "client", a.promRegistry)

	a.tokenStore = params.TokenStore
	if a.tokenStore == nil {
		if a.tokenStore, err = a.openTokenStore(ctx, params.RedisPassword); err != nil {
			return nil, err
		}
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = api.NewTracedHTTPClient(cfg.RequestTimeout)
	}

	a.API = api.NewClient(cfg.ApiBaseURL, cfg.Endpoints, httpClient, nil)
	var sessionOpts []auth.SessionOption
	if a.redisClient != nil {
		// shared kiosks get a per-device login cap
		limiter := auth.NewLoginLimiter(redis_rate.NewLimiter(a.redisClient), cfg.DeviceID, cfg.LoginRateLimitPerMin)
		sessionOpts = append(sessionOpts, auth.WithLoginLimiter(limiter))
	}
	a.Session = auth.NewSession(a.API, a.tokenStore, a.Bus, sessionOpts...)
	a.API.SetTokenProvider(a.Session)

	a.Programs = workout.NewStore(a.API, workout.StoreOptions{
		TTL:            cfg.ProgramCacheTTL,
		CacheSizeBytes: cfg.ProgramCacheSizeMB * 1024 * 1024,
		Metrics:        a.Metrics,
	})
	a.Resolver = workout.NewResolver(a.Programs)
	a.Calendar = calendar.NewCache(a.API)
	a.Nutrition = nutrition.NewCache(a.API)
	a.Preloader = preload.NewPreloader(httpClient, a.Metrics, cfg.PreloadConcurrency)
	a.Recorder = progress.NewAPIRecorder(a.API, a.Metrics, cfg.RequestTimeout)

	a.unsubscribe = append(a.unsubscribe,
		a.Bus.OnLogout(a.Programs.InvalidateAll),
		a.Bus.OnLogout(a.Calendar.Clear),
		a.Bus.OnLogout(a.Nutrition.Clear),
	)

	return a, nil
}

func (a *App) openTokenStore(ctx context.Context, redisPassword string) (auth.TokenStore, error) {
	cfg := a.Config
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: redisPassword,
			DB:       0,
		})
		if a.tracingEnabled {
			a.redisClient.AddHook(redisotel.NewTracingHook())
		}
		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		}

		store := auth.NewRedisStore(a.redisClient, cfg.DeviceID, auth.DefaultRedisTTL)
		cleanupCtx, cancel := context.WithCancel(context.Background())
		a.stopCleanup = cancel
		go func() {
			ticker := time.NewTicker(redisCleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-cleanupCtx.Done():
					return
				case <-ticker.C:
					store.ScanAndClean(cleanupCtx)
				}
			}
		}()
		return store, nil
	default:
		if err := pkg.EnsureDir(cfg.SessionDataDir); err != nil {
			return nil, fmt.Errorf("session data dir: %w", err)
		}
		store, err := auth.NewBadgerStore(cfg.SessionDataDir)
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		return store, nil
	}
}

// RestoreSession loads the persisted session and, when there is one, refreshes
// the profile. A rejected token ends up logged out.
func (a *App) RestoreSession(ctx context.Context) (bool, error) {
	found, err := a.Session.Restore(ctx)
	if err != nil || !found {
		return false, err
	}
	if _, err := a.Session.LoadProfile(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return false, nil
		}
		// offline: keep the restored session
		log.Warnf("app: refresh profile: %s", err)
	}
	return a.Session.IsAuthenticated(), nil
}

// LoadProgram reads the program through the shared cache and starts warming its media.
func (a *App) LoadProgram(ctx context.Context, programID string, refresh bool) (*workout.Program, error) {
	var (
		program *workout.Program
		err     error
	)
	if refresh {
		program, err = a.Programs.Refresh(ctx, programID)
	} else {
		program, err = a.Programs.GetProgram(ctx, programID)
	}
	if err != nil {
		return nil, err
	}
	a.Preloader.Warm(context.WithoutCancel(ctx), program.MediaURLs())
	return program, nil
}

// ExerciseDetails places an exercise in its program: superset siblings, its
// index in the group and the exercise that follows.
func (a *App) ExerciseDetails(ctx context.Context, programID, exerciseID string) (*workout.Position, error) {
	if _, err := a.LoadProgram(ctx, programID, false); err != nil {
		return nil, err
	}
	pos, ok := a.Resolver.Locate(programID, exerciseID)
	if !ok {
		return nil, fmt.Errorf("%w: exercise %s in program %s", workout.ErrExerciseNotFound, exerciseID, programID)
	}
	return pos, nil
}

// NewTrainingController builds a session over the shared program cache. onTick
// receives every timer event, typically to redraw the screen.
func (a *App) NewTrainingController(programID string, navigate func(), onTick func(timer.Event)) *training.Controller {
	var opts []timer.Option
	if onTick != nil {
		opts = append(opts, timer.WithObserver(onTick))
	}
	return training.NewController(training.Params{
		ProgramID: programID,
		Programs:  a.Programs,
		Timer:     timer.New(opts...),
		Recorder:  a.Recorder,
		Navigate:  navigate,
		Metrics:   a.Metrics,
	})
}

// ServeMetrics exposes /metrics when a metrics port is configured.
func (a *App) ServeMetrics() {
	if !a.Config.MetricsEnabled() {
		log.Debugln("metrics endpoint disabled")
		return
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Use(otelmux.Middleware("fitcoach-metrics"))
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		a.promRegistry,
		promhttp.HandlerOpts{},
	))

	metricsAddr := net.JoinHostPort(a.Config.PrometheusMetricsHost, a.Config.PrometheusMetricsPort)
	a.metricsServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server, listen and serve: %s", err)
		}
	}()
}

// Close waits for background work (progress submits, media warm-up) and
// releases every resource, returning all shutdown errors combined.
func (a *App) Close() error {
	var err error

	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	a.unsubscribe = nil

	if a.Recorder != nil {
		a.Recorder.Close()
	}
	if a.Preloader != nil {
		a.Preloader.Close()
	}
	if a.stopCleanup != nil {
		a.stopCleanup()
	}

	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = multierr.Append(err, a.metricsServer.Shutdown(ctx))
		cancel()
	}
	if a.tokenStore != nil {
		err = multierr.Append(err, a.tokenStore.Close())
	}
	if a.redisClient != nil {
		err = multierr.Append(err, a.redisClient.Close())
	}
	if a.otelShutdown != nil {
		a.otelShutdown()
	}

	return err
}
