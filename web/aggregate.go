package web

import (
	"net/http"
	"strconv"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/model"
)

// AggregateResponse is the JSON response structure for the aggregate endpoint.
type AggregateResponse struct {
	Rows []ledger.AggregateRow `json:"rows"`
}

// handleGetAggregate handles GET requests to /api/aggregate.
//
// Query parameters:
//   - path: path expression (required).
//   - level: collapse paths to this many segments.
//   - since: ignore splits posted before this date (YYYY-MM-DD).
//   - period: "M" (default) or "Y".
//   - closed: "true" to include closed accounts.
//
// Examples:
//   - GET /api/aggregate?path=Expenses:**&level=2 - Monthly expenses per category
//   - GET /api/aggregate?path=Income:*&period=Y&since=2020-01-01 - Yearly income
func (s *Server) handleGetAggregate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	path := q.Get("path")
	if path == "" {
		writeJSONError(w, http.StatusBadRequest, ErrorResponse{Error: "path is required"})
		return
	}

	opts := ledger.AggregateOptions{IncludeClosed: q.Get("closed") == "true"}

	if levelParam := q.Get("level"); levelParam != "" {
		level, err := strconv.Atoi(levelParam)
		if err != nil || level < 0 {
			writeJSONError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid level: " + levelParam})
			return
		}
		opts.Level = level
	}

	if sinceParam := q.Get("since"); sinceParam != "" {
		since, err := model.ParseDate(sinceParam)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid since date (expected YYYY-MM-DD): " + sinceParam})
			return
		}
		opts.Since = since
	}

	if periodParam := q.Get("period"); periodParam != "" {
		period, err := ledger.ParsePeriod(periodParam)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		opts.Period = period
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.ledger.Aggregate(path, opts)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSONResponse(w, &AggregateResponse{Rows: rows})
}
