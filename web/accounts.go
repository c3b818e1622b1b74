package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/model"
)

// AccountInfo is the JSON form of one account row.
type AccountInfo struct {
	ID          string          `json:"id"`
	Path        string          `json:"path"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Currency    string          `json:"currency"`
	ParentID    string          `json:"parentId,omitempty"`
	Closed      bool            `json:"closed"`
	LastBalance decimal.Decimal `json:"lastBalance"`
	IBAN        string          `json:"iban,omitempty"`
	LastImport  *model.Date     `json:"lastImportedTransactionDate,omitempty"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// handleGetAccounts handles GET requests to /api/accounts.
//
// Query parameters:
//   - pattern: path expression, defaults to "**" (all accounts).
//   - closed: "true" to include closed accounts.
//
// Accounts are returned in document order.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		pattern = ledger.WildcardSubtree
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.ledger.Query(pattern, queryOptions(r)...)

	accounts := make([]AccountInfo, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, AccountInfo{
			ID:          row.ID,
			Path:        row.Path,
			Name:        row.Name,
			Type:        row.Type.String(),
			Currency:    row.Currency,
			ParentID:    row.ParentID,
			Closed:      row.Closed,
			LastBalance: row.LastBalance,
			IBAN:        row.IBAN,
			LastImport:  row.LastImportedTransactionDate,
		})
	}

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}

func queryOptions(r *http.Request) []ledger.QueryOption {
	if r.URL.Query().Get("closed") == "true" {
		return []ledger.QueryOption{ledger.IncludeClosed()}
	}
	return nil
}
