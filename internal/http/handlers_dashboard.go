package http

import (
	"net/http"

	applog "lifedeck/internal/log"
)

// handleDashboard returns the home summary for ?year=&month=, defaulting to
// the current month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	home, err := s.svc.Dashboard.HomeFor(r.Context(), params.Year, params.Month)
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	OK(home).Write(w)
}
