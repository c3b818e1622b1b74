package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

const testLedger = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE KMYMONEY-FILE>
<KMYMONEY-FILE>
 <TRANSACTIONS count="3">
  <TRANSACTION commodity="EUR" id="T1" postdate="2020-03-15" entrydate="" memo="Groceries">
   <SPLITS>
    <SPLIT value="-5000/100" account="A3" id="S0001" shares="-5000/100" price="1/1" memo=""/>
    <SPLIT value="50/1" account="E2" id="S0002" shares="50/1" price="1/1" memo=""/>
   </SPLITS>
  </TRANSACTION>
  <TRANSACTION commodity="EUR" id="T2" postdate="2020-03-01" entrydate="" memo="Salary">
   <SPLITS>
    <SPLIT value="200/1" account="A3" id="S0001" shares="200/1" price="1/1" memo="March"/>
    <SPLIT value="-200/1" account="I1" id="S0002" shares="-200/1" price="1/1" memo=""/>
   </SPLITS>
  </TRANSACTION>
  <TRANSACTION commodity="EUR" id="T3" postdate="2021-01-10" entrydate="" memo="Unbalanced">
   <SPLITS>
    <SPLIT value="-10/1" account="A4" id="S0001" shares="-10/1" price="1/1" memo=""/>
    <SPLIT value="9/1" account="E2" id="S0002" shares="9/1" price="1/1" memo=""/>
   </SPLITS>
  </TRANSACTION>
 </TRANSACTIONS>
 <ACCOUNTS count="6">
  <ACCOUNT currency="EUR" id="A1" name="Assets" type="9" parentaccount=""/>
  <ACCOUNT currency="EUR" id="A2" name="Bank" type="9" parentaccount="A1"/>
  <ACCOUNT currency="EUR" id="A3" name="Checking" type="1" parentaccount="A2">
   <KEYVALUEPAIRS>
    <PAIR key="lastStatementBalance" value="150/1"/>
   </KEYVALUEPAIRS>
  </ACCOUNT>
  <ACCOUNT currency="EUR" id="A4" name="Savings" type="2" parentaccount="A2">
   <KEYVALUEPAIRS>
    <PAIR key="mm-closed" value="yes"/>
   </KEYVALUEPAIRS>
  </ACCOUNT>
  <ACCOUNT currency="EUR" id="E1" name="Expenses" type="13" parentaccount=""/>
  <ACCOUNT currency="EUR" id="E2" name="Food" type="13" parentaccount="E1"/>
  <ACCOUNT currency="EUR" id="I1" name="Income" type="12" parentaccount=""/>
 </ACCOUNTS>
</KMYMONEY-FILE>
`

func newTestServer(t *testing.T) (*Server, *http.ServeMux) {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "household.xml")
	assert.NoError(t, os.WriteFile(filename, []byte(testLedger), 0o644))

	server := NewWithVersion(8080, filename, "1.0.0", "abc123")
	assert.NoError(t, server.reloadLedger(context.Background()))

	return server, server.setupRouter()
}

func get(t *testing.T, mux *http.ServeMux, url string, v any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	if v != nil {
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(v))
	}
	return rec
}

func TestAPIAccounts(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("AllOpenAccounts", func(t *testing.T) {
		var response AccountsResponse
		rec := get(t, mux, "/api/accounts", &response)
		assert.Equal(t, http.StatusOK, rec.Code)

		var paths []string
		for _, acc := range response.Accounts {
			paths = append(paths, acc.Path)
		}
		assert.Equal(t, []string{"Assets", "Assets:Bank", "Assets:Bank:Checking", "Expenses", "Expenses:Food", "Income"}, paths)
		assert.Equal(t, "Checkings", response.Accounts[2].Type)
		assert.Equal(t, "150", response.Accounts[2].LastBalance.String())
	})

	t.Run("PatternWithClosed", func(t *testing.T) {
		var response AccountsResponse
		get(t, mux, "/api/accounts?pattern=Assets:Bank:*&closed=true", &response)

		assert.Equal(t, 2, len(response.Accounts))
		assert.Equal(t, "Assets:Bank:Savings", response.Accounts[1].Path)
		assert.True(t, response.Accounts[1].Closed)
	})

	t.Run("NoMatchIsEmptyArray", func(t *testing.T) {
		rec := get(t, mux, "/api/accounts?pattern=Liabilities", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"accounts":[]}`, strings.TrimSpace(rec.Body.String()))
	})
}

func TestAPISplits(t *testing.T) {
	_, mux := newTestServer(t)

	var response SplitsResponse
	get(t, mux, "/api/splits", &response)

	assert.Equal(t, 6, len(response.Splits))
	first := response.Splits[0]
	assert.Equal(t, "T1", first.TransactionID)
	assert.Equal(t, "Assets:Bank:Checking", first.AccountPath)
	assert.Equal(t, "2020-03-15", first.Date.String())
	assert.Equal(t, "-50", first.Value.String())
	assert.Equal(t, "Groceries", first.TransactionMemo)
}

func TestAPIBalance(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("RunningBalance", func(t *testing.T) {
		var response BalanceResponse
		rec := get(t, mux, "/api/balance?path=Assets:Bank:Checking", &response)
		assert.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, 2, len(response.Rows))
		assert.Equal(t, "T2", response.Rows[0].TransactionID)
		assert.Equal(t, "200", response.Rows[0].Balance.String())
		assert.Equal(t, "150", response.Rows[1].Balance.String())
	})

	t.Run("Ambiguous", func(t *testing.T) {
		var response ErrorResponse
		rec := get(t, mux, "/api/balance?path=*", &response)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, []string{"Assets", "Expenses", "Income"}, response.Matches)
	})

	t.Run("MissingPath", func(t *testing.T) {
		rec := get(t, mux, "/api/balance", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NoMatch", func(t *testing.T) {
		var response BalanceResponse
		rec := get(t, mux, "/api/balance?path=Assets:Gold", &response)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, len(response.Rows))
	})
}

func TestAPIAggregate(t *testing.T) {
	_, mux := newTestServer(t)

	t.Run("MonthlyByLevel", func(t *testing.T) {
		var response struct {
			Rows []struct {
				Path   string `json:"path"`
				Period string `json:"period"`
				Sum    string `json:"sum"`
			} `json:"rows"`
		}
		rec := get(t, mux, "/api/aggregate?path=**&level=1", &response)
		assert.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, 4, len(response.Rows))
		assert.Equal(t, "Assets", response.Rows[0].Path)
		assert.Equal(t, "2020-03", response.Rows[0].Period)
		assert.Equal(t, "150", response.Rows[0].Sum)
	})

	t.Run("YearlySinceWithClosed", func(t *testing.T) {
		var response AggregateResponse
		get(t, mux, "/api/aggregate?path=Assets:**&period=Y&since=2021-01-01&closed=true", &response)

		assert.Equal(t, 1, len(response.Rows))
		assert.Equal(t, "Assets:Bank:Savings", response.Rows[0].Path)
		assert.Equal(t, "-10", response.Rows[0].Sum.String())
	})

	t.Run("InvalidParameters", func(t *testing.T) {
		for _, url := range []string{
			"/api/aggregate",
			"/api/aggregate?path=**&level=x",
			"/api/aggregate?path=**&since=yesterday",
			"/api/aggregate?path=**&period=W",
		} {
			rec := get(t, mux, url, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, url)
		}
	})
}

func TestAPISource(t *testing.T) {
	server, mux := newTestServer(t)

	var response SourceResponse
	get(t, mux, "/api/source", &response)

	assert.Equal(t, server.ledgerFile, response.Filepath)
	assert.Equal(t, testLedger, response.Source)
	assert.Equal(t, 1, len(response.Errors))
	assert.Equal(t, "TransactionNotBalancedError", response.Errors[0].Type)
	assert.Contains(t, response.Errors[0].Message, "transaction T3 does not balance")
	assert.Equal(t, "T3", response.Errors[0].Details["transactionId"])
	assert.NotZero(t, response.Errors[0].Position)
}

func TestAPIVersion(t *testing.T) {
	_, mux := newTestServer(t)

	var response VersionResponse
	get(t, mux, "/api/version", &response)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Equal(t, "abc123", response.CommitSHA)
}

func TestReloadKeepsLedgerOnError(t *testing.T) {
	server, _ := newTestServer(t)

	assert.NoError(t, os.WriteFile(server.ledgerFile, []byte("<KMYMONEY-FILE>"), 0o644))
	assert.Error(t, server.reloadLedger(context.Background()))

	server.mu.RLock()
	defer server.mu.RUnlock()
	assert.Equal(t, 7, len(server.ledger.Accounts()))
}

func TestSSEBroadcast(t *testing.T) {
	server, mux := newTestServer(t)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/events")
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	assert.NoError(t, err)
	assert.Equal(t, "data: connected\n", line)

	// wait for the client to be registered before broadcasting
	deadline := time.Now().Add(time.Second)
	for {
		server.sseMu.Lock()
		n := len(server.sseClients)
		server.sseMu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	server.broadcast("reload")

	for {
		line, err = reader.ReadString('\n')
		assert.NoError(t, err)
		if strings.HasPrefix(line, "data: reload") {
			break
		}
	}
}
