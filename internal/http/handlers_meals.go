package http

import (
	"net/http"
	"strings"

	applog "lifedeck/internal/log"
)

// handleListMeals returns the full catalog (built-in recipes first), or the
// recipes of one category.
func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		meals, err := s.svc.Meals.ByCategory(r.Context(), category)
		if err != nil {
			s.writeError(w, r, applog.OpList, err)
			return
		}
		OK(meals).Write(w)
		return
	}

	meals, err := s.svc.Meals.Catalog(r.Context())
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	OK(meals).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	OK(s.svc.Meals.Categories()).Write(w)
}

// handleOpenMeal returns a recipe and records it as the last one visited.
func (s *Server) handleOpenMeal(w http.ResponseWriter, r *http.Request) {
	meal, err := s.svc.Meals.Open(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	OK(meal).Write(w)
}

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, applog.OpCreate, err)
		return
	}
	meal, err := s.svc.Meals.Create(r.Context(), req.toMeal())
	if err != nil {
		s.writeError(w, r, applog.OpCreate, err)
		return
	}
	Created(meal).Write(w)
}

func (s *Server) handleUpdateMealImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	meal, err := s.svc.Meals.UpdateImage(r.Context(), r.PathValue("id"), strings.TrimSpace(req.ImageURL))
	if err != nil {
		s.writeError(w, r, applog.OpUpdate, err)
		return
	}
	OK(meal).Write(w)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Meals.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}
