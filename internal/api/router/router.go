package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/clinicdesk-ai/internal/admin"
	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
	httpmiddleware "github.com/wolfman30/clinicdesk-ai/internal/http/middleware"
	"github.com/wolfman30/clinicdesk-ai/internal/webchat"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

const healthProbeTimeout = 3 * time.Second

// GenerationChecker reports whether the text generator answers.
type GenerationChecker interface {
	GenerationAvailable(ctx context.Context) bool
}

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	WebChatHandler      *webchat.Handler
	AppointmentsHandler *appointments.Handler
	FeedbackHandler     *feedback.Handler
	AdminHandler        *admin.Handler
	Generation          GenerationChecker
	MetricsHandler      http.Handler

	// AdminAuthSecret enables JWT auth on /api/admin when set.
	AdminAuthSecret    string
	CORSAllowedOrigins []string
	ChatLimiter        *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthHandler(cfg.Generation))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.WebChatHandler != nil {
		r.Get("/ws/chat", cfg.WebChatHandler.HandleWebSocket)
	}

	r.Route("/api", func(api chi.Router) {
		api.Group(func(chat chi.Router) {
			if cfg.ChatLimiter != nil {
				chat.Use(httpmiddleware.RateLimit(cfg.ChatLimiter))
			}
			chat.Use(middleware.AllowContentType("application/json"))
			chat.Post("/chat", cfg.ConversationHandler.Chat)
		})

		if cfg.AppointmentsHandler != nil {
			api.Get("/appointments", cfg.AppointmentsHandler.List)
			api.With(middleware.AllowContentType("application/json")).Post("/appointments", cfg.AppointmentsHandler.Create)
		}
		if cfg.FeedbackHandler != nil {
			api.Get("/feedback", cfg.FeedbackHandler.List)
		}
		if cfg.AdminHandler != nil {
			api.Route("/admin", func(adm chi.Router) {
				if cfg.AdminAuthSecret != "" {
					adm.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
				}
				adm.Get("/summary", cfg.AdminHandler.Summary)
			})
		}
	})

	return r
}

type healthResponse struct {
	Status     string `json:"status"`
	Generation string `json:"generation"`
}

func healthHandler(gen GenerationChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Generation: "unavailable"}
		if gen != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
			defer cancel()
			if gen.GenerationAvailable(ctx) {
				resp.Generation = "available"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
