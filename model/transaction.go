package model

import "github.com/shopspring/decimal"

// Transaction is a dated double-entry record owning two or more splits.
//
// XML example:
//
//	<TRANSACTION commodity="EUR" id="T000000000000000001" postdate="2006-09-01"
//	  entrydate="2012-01-19" memo="">
//	  <SPLITS>
//	    <SPLIT value="-30537/25" account="A000110" id="S0001" .../>
//	    <SPLIT value="30537/25" account="A000079" id="S0002" .../>
//	  </SPLITS>
//	</TRANSACTION>
type Transaction struct {
	ID        string
	Commodity string
	PostDate  *Date
	EntryDate *Date
	Memo      string

	Splits []*Split
}

// Sum returns the sum of all split values. A balanced transaction sums to zero.
func (t *Transaction) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range t.Splits {
		sum = sum.Add(s.Value)
	}
	return sum
}

// Split is one leg of a transaction, debiting or crediting a single account.
// Value is expressed in the transaction commodity, Shares in the account's
// own unit. TransactionID refers back to the owning transaction by id.
type Split struct {
	ID            string
	TransactionID string
	AccountID     string
	Value         decimal.Decimal
	Shares        decimal.Decimal
	Price         decimal.Decimal
	Action        string
	BankID        string
	Number        string
	PayeeID       string
	ReconcileFlag string
	ReconcileDate *Date
	Memo          string
}

// Document is the decoded content of one ledger file. Transactions and
// Accounts keep document order.
type Document struct {
	Transactions []*Transaction
	Accounts     []*Account
}
