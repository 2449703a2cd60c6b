package container

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"pricecompare/adapters/api"
	"pricecompare/internal"
	"pricecompare/internal/chart"
	"pricecompare/internal/config"
	"pricecompare/internal/dashboard"
	"pricecompare/internal/session"
	"pricecompare/ui"

	"golang.org/x/sync/errgroup"
)

// janitorInterval is how often expired sessions are swept
const janitorInterval = time.Minute

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Core
	Pipeline *dashboard.Pipeline
	Renderer *chart.Renderer
	Sessions *session.Store

	// Servers; API is nil when disabled
	Dashboard *ui.Server
	API       *api.Server
}

// New creates a container. templatesFS holds the dashboard *.html templates
// at its root.
func New(cfg *config.Config, logger *internal.Logger, templatesFS fs.FS) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.initCore(); err != nil {
		return nil, fmt.Errorf("failed to initialize core components: %w", err)
	}
	if err := c.initServers(templatesFS); err != nil {
		return nil, fmt.Errorf("failed to initialize servers: %w", err)
	}

	logger.Info("container initialized (api enabled: %t)", c.API != nil)
	return c, nil
}

func (c *Container) initCore() error {
	renderer, err := chart.NewRenderer(c.Config.Chart.FontPath)
	if err != nil {
		return err
	}
	c.Renderer = renderer

	c.Pipeline = dashboard.New(dashboard.Config{
		ProductColumn:  c.Config.Sheet.ProductColumn,
		QuantityColumn: c.Config.Sheet.QuantityColumn,
		QuantityMax:    c.Config.Sheet.QuantityMax,
		MaxRows:        c.Config.Sheet.MaxRows,
	}, c.Logger)

	c.Sessions = session.NewStore(c.Config.Session.TTL)
	return nil
}

func (c *Container) initServers(templatesFS fs.FS) error {
	dashboardServer, err := ui.NewServer(ui.Config{
		MaxUploadBytes: c.Config.Upload.MaxBytes,
		CookieName:     c.Config.Session.CookieName,
		SessionTTL:     c.Config.Session.TTL,
	}, templatesFS, c.Pipeline, c.Renderer, c.Sessions, c.Logger)
	if err != nil {
		return err
	}
	c.Dashboard = dashboardServer

	if c.Config.API.Enabled {
		apiConfig := api.DefaultConfig()
		apiConfig.MaxUploadBytes = c.Config.Upload.MaxBytes
		c.API = api.NewServer(apiConfig, c.Pipeline, c.Renderer, c.Logger)
	}
	return nil
}

// Run serves the dashboard and, when enabled, the API until ctx is
// cancelled or one of them fails.
func (c *Container) Run(ctx context.Context) error {
	timeout := c.Config.Server.ShutdownTimeout
	g, gctx := errgroup.WithContext(ctx)

	c.Sessions.StartJanitor(gctx, janitorInterval)

	g.Go(func() error {
		return c.Dashboard.Start(gctx, ":"+c.Config.Server.Port, timeout)
	})
	if c.API != nil {
		g.Go(func() error {
			return c.API.Start(gctx, ":"+c.Config.API.Port, timeout)
		})
	}
	return g.Wait()
}
