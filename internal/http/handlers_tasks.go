package http

import (
	"net/http"

	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.Tasks.List(r.Context())
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	OK(tasks).Write(w)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, applog.OpCreate, err)
		return
	}
	task, err := s.svc.Tasks.Add(r.Context(), sanitizeInput(req.Text), req.Urgent, req.Important)
	if err != nil {
		s.writeError(w, r, applog.OpCreate, err)
		return
	}
	Created(task).Write(w)
}

// handleUpdateTask replaces text and flags of the task named in the path.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	task, err := s.svc.Tasks.Update(r.Context(), core.Task{
		ID:        r.PathValue("id"),
		Text:      sanitizeInput(req.Text),
		Urgent:    req.Urgent,
		Important: req.Important,
		Done:      req.Done,
	})
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	OK(task).Write(w)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.svc.Tasks.ToggleDone(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	OK(task).Write(w)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}
