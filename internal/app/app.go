package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"shopadmin/internal/api/goods"
	"shopadmin/internal/api/order"
	"shopadmin/internal/api/user"
	"shopadmin/internal/config"
	"shopadmin/internal/handler"
	"shopadmin/internal/monitor"
	"shopadmin/internal/redis"
	"shopadmin/internal/route"
	"shopadmin/internal/session"
	"shopadmin/internal/transport"
	"shopadmin/pkg/log"
	"shopadmin/pkg/utils"
)

// Version is reported to the tracer and by the CLI
var Version = "dev"

// App is the wired console: session, backend client, API modules and
// the route table, plus the observability they report to.
type App struct {
	Config  *config.Config
	Redis   *goredis.Client // nil unless the redis session driver is used
	Session *session.Session
	Client  *transport.Client
	Goods   goods.API
	Orders  order.API
	Users   user.API
	Metrics *monitor.MetricsCollector
	Tracer  *monitor.Tracer

	routes *handler.RouteHandler
	logger *logrus.Entry
}

// New wires an App from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, opts ...transport.Option) (*App, error) {
	a := &App{
		Config:  cfg,
		Metrics: monitor.NewMetricsCollector(cfg.Metrics.Namespace, nil),
		logger:  log.Component("app"),
	}

	tracer, err := monitor.NewTracer(monitor.TracerConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: Version,
		Environment:    config.GetEnv(config.EnvName, "dev"),
		JaegerEndpoint: cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.Tracer = tracer

	if cfg.Session.Driver == "redis" {
		if a.Redis, err = redis.NewClient(ctx, cfg.Redis); err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
	}

	var client goredis.Cmdable
	if a.Redis != nil {
		client = a.Redis
	}
	store, err := session.NewStore(cfg, client)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Session = session.New(store, session.WithRecorder(a.Metrics))

	base := []transport.Option{
		transport.WithTokenReader(a.Session),
		transport.WithMetrics(a.Metrics),
		transport.WithTracer(a.Tracer),
		transport.WithOnAuthError(a.onAuthError),
	}
	if a.Client, err = transport.NewFromConfig(cfg.API, append(base, opts...)...); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.Goods = goods.New(a.Client)
	a.Orders = order.New(a.Client)
	a.Users = user.New(a.Client)

	table, err := LoadRoutes(cfg.Routes)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.routes = handler.NewRouteHandler(table)

	return a, nil
}

// onAuthError drops the stored token once the backend rejects it or it
// expired, so the next call fails fast and the caller is sent back to login.
func (a *App) onAuthError(ctx context.Context, apiErr *utils.APIError) {
	if apiErr.Status == 0 && !errors.Is(apiErr, session.ErrTokenExpired) {
		return
	}
	if err := a.Session.Logout(context.WithoutCancel(ctx)); err != nil {
		a.logger.WithError(err).Warn("Failed to clear rejected token")
		return
	}
	a.logger.WithField("status", apiErr.Status).Info("Token rejected, logged out")
}

// LoadRoutes reads cfg.File when set and the embedded table otherwise
func LoadRoutes(cfg config.RoutesConfig) (*route.Table, error) {
	if cfg.File != "" {
		t, err := route.LoadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("load routes %s: %w", cfg.File, err)
		}
		return t, nil
	}
	return route.Default()
}

// Routes returns the route table in use
func (a *App) Routes() *route.Table {
	return a.routes.Table()
}

// ReloadRoutes swaps in the table named by cfg. On error the old table stays.
func (a *App) ReloadRoutes(cfg config.RoutesConfig) error {
	t, err := LoadRoutes(cfg)
	if err != nil {
		return err
	}
	a.routes.SetTable(t)
	return nil
}

// Router builds the console HTTP engine
func (a *App) Router() *gin.Engine {
	checks := map[string]handler.HealthCheck{}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redis.Health(ctx, a.Redis)
		}
	}

	return handler.NewRouter(handler.Deps{
		Config:  a.Config,
		Goods:   handler.NewGoodsHandler(a.Goods),
		Orders:  handler.NewOrderHandler(a.Orders),
		Account: handler.NewAccountHandler(a.Session, a.Users),
		Routes:  a.routes,
		Health:  handler.NewHealthHandler(checks),
		Metrics: a.Metrics,
		Tracer:  a.Tracer,
	})
}

// Close flushes spans and closes the redis client
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Tracer != nil {
		if err := a.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
