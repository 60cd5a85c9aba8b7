package http

import (
	"net/http"
	"strings"

	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
	"lifedeck/internal/services"
)

// handleListTransactions returns the whole ledger, or one month of it when
// year or month is given.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !hasMonthParams(query) {
		txs, err := s.svc.Transactions.List(r.Context())
		if err != nil {
			s.writeError(w, r, applog.OpList, err)
			return
		}
		OK(txs).Write(w)
		return
	}

	params, err := ParseMonthParams(query, s.now())
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	txs, err := s.svc.Transactions.ForMonth(r.Context(), params.Year, params.Month)
	if err != nil {
		s.writeError(w, r, applog.OpList, err)
		return
	}
	OK(txs).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, applog.OpCreate, err)
		return
	}

	in := services.NewTransaction{
		Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(string(req.Type)))),
		Amount:      req.Amount,
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
	}
	if strings.TrimSpace(req.Date) != "" {
		d, err := core.ParseDate(req.Date)
		if err != nil {
			s.writeError(w, r, applog.OpCreate, err)
			return
		}
		in.Date = d
	}

	tx, err := s.svc.Transactions.Add(r.Context(), in)
	if err != nil {
		s.writeError(w, r, applog.OpCreate, err)
		return
	}
	Created(tx).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	totals, err := s.svc.Transactions.Balance(r.Context(), params.Year, params.Month)
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	OK(totals).Write(w)
}
