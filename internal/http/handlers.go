package http

import (
	"context"
	"net/http"
	"time"

	"lifedeck/internal/middleware/trace"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	OK(map[string]interface{}{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks that the slot store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"store": "ok"}
	status, code := "ready", http.StatusOK
	if s.svc.Ready != nil {
		if err := s.svc.Ready(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "error", err, "request_id", trace.GetRequestID(ctx))
			checks["store"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}

	NewJSONResponse().Status(code).JSON(map[string]interface{}{
		"status": status,
		"checks": checks,
	}).Write(w)
}
