package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"deliveryplan/internal/auth"
	"deliveryplan/internal/config"
	"deliveryplan/internal/store"
	"deliveryplan/internal/webhooks"
)

type Server struct {
	Store   store.Store
	Pub     *webhooks.Publisher
	Auth    *auth.Verifier
	Broker  EventBroker
	Log     zerolog.Logger
	Cfg     config.Config
	limiter *tenantLimiter
}

// NewServer wires the store, broker and auth described by cfg. Without
// DATABASE_URL it uses the in-memory store; without REDIS_URL (or when Redis
// is unreachable) the in-memory broker.
func NewServer(cfg config.Config, log zerolog.Logger) (*Server, error) {
	var s store.Store
	if cfg.DatabaseURL == "" {
		s = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.DBMigrate {
			if err := pg.Migrate(context.Background()); err != nil {
				return nil, err
			}
		}
		s = pg
	}

	var broker EventBroker = NewBroker()
	if cfg.RedisURL != "" {
		rb, err := NewRedisBroker(cfg.RedisURL, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis broker unavailable; using in-memory broker")
		} else {
			broker = rb
		}
	}

	return &Server{
		Store:   s,
		Pub:     webhooks.NewPublisher(s),
		Auth:    auth.NewVerifier(cfg.AuthMode, []byte(cfg.AuthHMACSecret), cfg.AuthTenantClaim, cfg.AuthRoleClaim),
		Broker:  broker,
		Log:     log,
		Cfg:     cfg,
		limiter: newTenantLimiter(cfg.RateRPS, cfg.RateBurst),
	}, nil
}

// Handler returns the routed, instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Planning
	mux.HandleFunc("POST /v1/deliveries/schedule", s.ScheduleDeliveriesHandler)
	mux.HandleFunc("POST /v1/loads/optimize", s.OptimizeLoadHandler)
	mux.HandleFunc("POST /v1/drivers/assign", s.AssignDriversHandler)

	// Run history
	mux.HandleFunc("GET /v1/runs", s.RunsIndexHandler)
	mux.HandleFunc("GET /v1/runs/stream", s.RunStreamHandler)
	mux.HandleFunc("GET /v1/runs/{id}", s.RunByIDHandler)

	// Subscriptions
	mux.HandleFunc("/v1/subscriptions", s.SubscriptionsHandler)
	mux.HandleFunc("DELETE /v1/subscriptions/{id}", s.SubscriptionByIDHandler)
	mux.HandleFunc("GET /v1/admin/webhook-deliveries", s.WebhookDeliveriesHandler)

	// Health, metrics, docs
	mux.HandleFunc("GET /healthz", s.HealthHandler)
	mux.HandleFunc("GET /readyz", s.ReadyHandler)
	mux.Handle("GET /metrics", metricsHandler())
	mux.HandleFunc("GET /debug", s.DebugJSON)
	mux.HandleFunc("GET /openapi.yaml", s.OpenAPIHandler)
	mux.HandleFunc("GET /openapi.json", s.OpenAPIJSONHandler)

	return s.logMiddleware(s.metricsMiddleware(s.rateLimitMiddleware(mux)))
}

// Close releases the store and broker connections.
func (s *Server) Close() error {
	if c, ok := s.Broker.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if c, ok := s.Store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
