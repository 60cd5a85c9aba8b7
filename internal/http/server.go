package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"lifedeck/internal/core"
	"lifedeck/internal/dashboard"
	applog "lifedeck/internal/log"
	"lifedeck/internal/middleware/ratelimit"
	"lifedeck/internal/middleware/security"
	"lifedeck/internal/middleware/trace"
	"lifedeck/internal/services"
)

// Services are the feature operations the API exposes.
type Services struct {
	Tasks        *services.TaskService
	Transactions *services.TransactionService
	Meals        *services.MealService
	WorkLog      *services.WorkLogService
	Dashboard    *dashboard.Service

	// Ready reports whether the slot store is reachable; nil means always.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server
	svc         Services
	logger      *applog.Logger
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware
	detector    *security.Detector
	now         func() time.Time
	started     time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc Services, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.Default(applog.ComponentHTTP)
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		svc:         svc,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:    security.NewDetector(),
		now:         time.Now,
		started:     time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		TooManyRequestsError().Write(w)
	})(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(logger)(handler)
	handler = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = applog.Middleware(logger)(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/balance", s.handleBalance)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/meals", s.handleListMeals)
	mux.HandleFunc("POST /api/meals", s.handleCreateMeal)
	mux.HandleFunc("GET /api/meals/categories", s.handleCategories)
	mux.HandleFunc("GET /api/meals/{id}", s.handleOpenMeal)
	mux.HandleFunc("PUT /api/meals/{id}/image", s.handleUpdateMealImage)
	mux.HandleFunc("DELETE /api/meals/{id}", s.handleDeleteMeal)

	mux.HandleFunc("GET /api/worklog", s.handleListWorkLog)
	mux.HandleFunc("POST /api/worklog", s.handleRecordWorkLog)
	mux.HandleFunc("GET /api/worklog/{date}", s.handleGetWorkLog)
	mux.HandleFunc("DELETE /api/worklog/{date}", s.handleDeleteWorkLog)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// writeError maps an operation error to its status code. Unexpected errors
// are logged and answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	requestID := trace.GetRequestID(r.Context())

	var status int
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrSeedMealReadOnly):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogError(r.Context(), "Request failed", err, op,
			applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, ""))
		NewJSONResponse().
			Status(http.StatusInternalServerError).
			JSON(ErrorBody{Error: "internal error", RequestID: requestID}).
			Write(w)
		return
	}

	NewJSONResponse().
		Status(status).
		JSON(ErrorBody{Error: err.Error(), RequestID: requestID}).
		Write(w)
}
