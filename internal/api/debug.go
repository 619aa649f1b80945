package api

import (
	"net/http"
	"time"

	"deliveryplan/internal/buildinfo"
)

// DebugJSON reports build info and the effective, secret-free config.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requirePrincipal(w, r, Principal.IsAdmin, "admin"); !ok {
		return
	}
	c := s.Cfg
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"environment":         c.Environment,
			"logLevel":            c.LogLevel,
			"port":                c.Port,
			"authMode":            c.AuthMode,
			"rateRps":             c.RateRPS,
			"rateBurst":           c.RateBurst,
			"webhookMaxAttempts":  c.WebhookMaxAttempts,
			"webhookPollInterval": c.WebhookPollInterval.String(),
			"maxBodyBytes":        c.MaxBodyBytes,
			"hasDatabaseUrl":      c.DatabaseURL != "",
			"hasRedisUrl":         c.RedisURL != "",
		},
	})
}
