package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/kmy/model"
)

// SplitInfo is the JSON form of one joined split row.
type SplitInfo struct {
	ID              string          `json:"id"`
	TransactionID   string          `json:"transactionId"`
	AccountID       string          `json:"accountId"`
	AccountPath     string          `json:"accountPath"`
	Date            *model.Date     `json:"date"`
	Value           decimal.Decimal `json:"value"`
	Shares          decimal.Decimal `json:"shares"`
	Payee           string          `json:"payeeId,omitempty"`
	Memo            string          `json:"memo"`
	TransactionMemo string          `json:"transactionMemo"`
}

// SplitsResponse is the JSON response structure for the splits endpoint.
type SplitsResponse struct {
	Splits []SplitInfo `json:"splits"`
}

// handleGetSplits handles GET requests to /api/splits.
// Returns every split joined with its transaction, in table order.
func (s *Server) handleGetSplits(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.ledger.Splits()
	splits := make([]SplitInfo, 0, len(rows))
	for _, row := range rows {
		path, _ := s.ledger.Path(row.AccountID)
		splits = append(splits, SplitInfo{
			ID:              row.ID,
			TransactionID:   row.TransactionID,
			AccountID:       row.AccountID,
			AccountPath:     path,
			Date:            row.PostDate,
			Value:           row.Value,
			Shares:          row.Shares,
			Payee:           row.PayeeID,
			Memo:            row.Memo,
			TransactionMemo: row.TransactionMemo,
		})
	}

	writeJSONResponse(w, &SplitsResponse{Splits: splits})
}
