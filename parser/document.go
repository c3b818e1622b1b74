package parser

import (
	"fmt"

	"github.com/robinvdvleuten/kmy/model"
)

const (
	transactionsPath = "TRANSACTIONS/TRANSACTION"
	accountsPath     = "ACCOUNTS/ACCOUNT"
)

// DecodeDocument decodes the transactions and accounts of a parsed ledger.
// The first failing record aborts decoding; no partial document is returned.
//
// Transactions are decoded first. A second pass then points every split back
// at its owning transaction, which only exists once the transaction itself
// has been built. Accounts are decoded independently. Splits referencing
// unknown accounts are kept as is.
//
// When an id occurs more than once, the last record wins and takes the
// position of the first.
func DecodeDocument(root *Record) (*model.Document, error) {
	doc := &model.Document{}

	txIndex := make(map[string]int)
	for _, rec := range root.FindAll(transactionsPath) {
		tx, err := transactionDecoder.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", rec.ID(), err)
		}
		if i, ok := txIndex[tx.ID]; ok {
			doc.Transactions[i] = tx
			continue
		}
		txIndex[tx.ID] = len(doc.Transactions)
		doc.Transactions = append(doc.Transactions, tx)
	}

	for id, i := range txIndex {
		for _, s := range doc.Transactions[i].Splits {
			s.TransactionID = id
		}
	}

	accountIndex := make(map[string]int)
	for _, rec := range root.FindAll(accountsPath) {
		acc, err := accountDecoder.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", rec.ID(), err)
		}
		if i, ok := accountIndex[acc.ID]; ok {
			doc.Accounts[i] = acc
			continue
		}
		accountIndex[acc.ID] = len(doc.Accounts)
		doc.Accounts = append(doc.Accounts, acc)
	}

	return doc, nil
}
