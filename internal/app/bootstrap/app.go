package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clinicdesk-ai/internal/admin"
	"github.com/wolfman30/clinicdesk-ai/internal/api/router"
	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	appconfig "github.com/wolfman30/clinicdesk-ai/internal/config"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
	httpmiddleware "github.com/wolfman30/clinicdesk-ai/internal/http/middleware"
	"github.com/wolfman30/clinicdesk-ai/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk-ai/internal/seed"
	"github.com/wolfman30/clinicdesk-ai/internal/webchat"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// App is the assembled chat service.
type App struct {
	Engine   *conversation.Engine
	Records  *Records
	Registry *prometheus.Registry

	sockets *webchat.Handler
	cfg     *appconfig.Config
	logger  *logging.Logger
	closers []func()
}

// Options overrides pieces of the default wiring.
type Options struct {
	// Records replaces the stores chosen from DATABASE_URL.
	Records *Records
	// Sessions replaces the store chosen from SESSION_BACKEND.
	Sessions conversation.SessionStore
	// Generator replaces the provider chain.
	Generator conversation.TextGenerator
}

// Build wires stores, sessions, generation, alerts and metrics into an engine.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	app := &App{cfg: cfg, logger: logger}
	loc := cfg.Location()

	records := opts.Records
	if records == nil {
		var err error
		records, err = BuildRecords(ctx, cfg.DatabaseURL, loc, logger)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, records.Close)
	}
	app.Records = records

	sessions := opts.Sessions
	if sessions == nil {
		store, closeSessions, err := BuildSessionStore(ctx, cfg, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		sessions = store
		app.closers = append(app.closers, closeSessions)
	}

	generator := opts.Generator
	if generator == nil {
		generator = BuildGenerator(ctx, cfg, logger)
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := conversation.EngineDeps{
		Sessions:     sessions,
		Log:          records.Log,
		Patients:     records.Patients,
		Appointments: records.Appointments,
		Feedback:     records.Feedback,
		Generator:    generator,
		Metrics:      metrics.NewConversationMetrics(app.Registry),
		Logger:       logger,
		Location:     loc,
	}
	if alerter := BuildAlerter(ctx, cfg, logger); alerter != nil {
		deps.Alerter = alerter
	}
	app.Engine = conversation.NewEngine(deps, conversation.EngineConfig{
		AssistantName:      cfg.ClinicName,
		ProbeGeneration:    cfg.GenerationProbe,
		FeedbackGeneration: cfg.FeedbackGeneration,
	})

	app.sockets = webchat.NewHandler(app.Engine, logger)
	metrics.RegisterWebChatConnections(app.Registry, app.sockets.OpenConnections)

	if cfg.SeedDemoData {
		if _, err := app.Seeder().Run(ctx, nowIn(loc)); err != nil {
			logger.Warn("demo seed failed", "error", err)
		}
	}
	return app, nil
}

// Seeder returns a demo data seeder over the app's stores.
func (a *App) Seeder() *seed.Seeder {
	return seed.New(a.Records.Patients, a.Records.Appointments, a.Records.Feedback, a.Records.Log, a.logger)
}

// Handler returns the HTTP routes.
func (a *App) Handler() http.Handler {
	var limiter *httpmiddleware.RateLimiter
	if a.cfg.ChatRateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(a.cfg.ChatRateLimitRPS, a.cfg.ChatRateLimitBurst)
	}
	return router.New(&router.Config{
		Logger:              a.logger,
		ConversationHandler: conversation.NewHandler(a.Engine, a.logger),
		WebChatHandler:      a.sockets,
		AppointmentsHandler: appointments.NewHandler(a.Records.Appointments, a.logger),
		FeedbackHandler:     feedback.NewHandler(a.Records.Feedback, a.logger),
		AdminHandler:        admin.NewHandler(a.Records.Reporter, nil, a.logger),
		Generation:          a.Engine,
		MetricsHandler:      promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:     a.cfg.AdminJWTSecret,
		CORSAllowedOrigins:  a.cfg.CORSAllowedOrigins,
		ChatLimiter:         limiter,
	})
}

// Close releases stores and clients in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
