package http

import (
	"net/http"

	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
)

// worklogView adds the derived extra hours to an entry.
type worklogView struct {
	core.WorkLogEntry
	ExtraHours float64 `json:"extraHours"`
}

func viewOf(e core.WorkLogEntry) worklogView {
	return worklogView{WorkLogEntry: e, ExtraHours: e.ExtraHours()}
}

func viewsOf(entries []core.WorkLogEntry) []worklogView {
	out := make([]worklogView, 0, len(entries))
	for _, e := range entries {
		out = append(out, viewOf(e))
	}
	return out
}

// handleListWorkLog returns every entry, or the first ?limit= entries.
func (s *Server) handleListWorkLog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := ParseLimit(query)
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}

	var entries []core.WorkLogEntry
	if query.Has("limit") {
		entries, err = s.svc.WorkLog.Recent(r.Context(), limit)
	} else {
		entries, err = s.svc.WorkLog.List(r.Context())
	}
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	OK(viewsOf(entries)).Write(w)
}

func (s *Server) handleRecordWorkLog(w http.ResponseWriter, r *http.Request) {
	var req workLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}

	date := core.DateOf(s.now())
	if req.Date != "" {
		d, err := core.ParseDate(req.Date)
		if err != nil {
			s.writeError(w, r, applog.OpUpdate, err)
			return
		}
		date = d
	}
	start, err := parseClock(date, req.StartTime)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	end, err := parseClock(date, req.EndTime)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}

	entry, err := s.svc.WorkLog.Record(r.Context(), date, req.Jornada, start, end)
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	OK(viewOf(entry)).Write(w)
}

func (s *Server) handleGetWorkLog(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	entry, err := s.svc.WorkLog.Get(r.Context(), date)
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	OK(viewOf(entry)).Write(w)
}

func (s *Server) handleDeleteWorkLog(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		s.writeError(w, r, applog.OpDelete, err)
		return
	}
	if err := s.svc.WorkLog.Delete(r.Context(), date); err != nil {
		s.writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}
