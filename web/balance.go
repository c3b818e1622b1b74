package web

import (
	"errors"
	"net/http"

	"github.com/robinvdvleuten/kmy/ledger"
)

// BalanceResponse is the JSON response structure for the balance endpoint.
type BalanceResponse struct {
	Path string              `json:"path"`
	Rows []ledger.BalanceRow `json:"rows"`
}

// handleGetBalance handles GET requests to /api/balance.
//
// Query parameters:
//   - path: expression matching exactly one account (required).
//   - closed: "true" to allow closed accounts.
//
// An expression matching several accounts is answered with 409 and the
// matching paths; no match yields an empty row list.
func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, http.StatusBadRequest, ErrorResponse{Error: "path is required"})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.ledger.RunningBalance(path, queryOptions(r)...)
	if err != nil {
		var ambiguous *ledger.AmbiguousPathError
		if errors.As(err, &ambiguous) {
			writeJSONError(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Matches: ambiguous.Matches})
			return
		}
		writeJSONError(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	if rows == nil {
		rows = []ledger.BalanceRow{}
	}
	writeJSONResponse(w, &BalanceResponse{Path: path, Rows: rows})
}
