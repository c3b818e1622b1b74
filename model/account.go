// Package model defines the typed entities of a KMyMoney ledger: accounts,
// transactions and the splits that tie them together. Entities are created
// once by the parser and never mutated afterwards.
//
// Monetary amounts are stored as exact decimals. KMyMoney writes them as
// fractions ("2385/100"), see ParseFraction.
package model

import "github.com/shopspring/decimal"

// AccountType is the numeric account type code written by KMyMoney.
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeCheckings
	AccountTypeSavings
	AccountTypeCash
	AccountTypeCreditCard
	AccountTypeLoan
	AccountTypeCertificateDep
	AccountTypeInvestment
	AccountTypeMoneyMarket
	AccountTypeAsset
	AccountTypeLiability
	AccountTypeCurrency
	AccountTypeIncome
	AccountTypeExpense
	AccountTypeAssetLoan
	AccountTypeStock
	AccountTypeEquity
)

var accountTypeNames = map[AccountType]string{
	AccountTypeCheckings:      "Checkings",
	AccountTypeSavings:        "Savings",
	AccountTypeCash:           "Cash",
	AccountTypeCreditCard:     "CreditCard",
	AccountTypeLoan:           "Loan",
	AccountTypeCertificateDep: "CertificateDep",
	AccountTypeInvestment:     "Investment",
	AccountTypeMoneyMarket:    "MoneyMarket",
	AccountTypeAsset:          "Asset",
	AccountTypeLiability:      "Liability",
	AccountTypeCurrency:       "Currency",
	AccountTypeIncome:         "Income",
	AccountTypeExpense:        "Expense",
	AccountTypeAssetLoan:      "AssetLoan",
	AccountTypeStock:          "Stock",
	AccountTypeEquity:         "Equity",
}

// String returns the name KMyMoney uses for the account type.
func (t AccountType) String() string {
	if name, ok := accountTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Account is a node of the account forest.
//
// XML example:
//
//	<ACCOUNT currency="EUR" id="A000001" name="Checking" institution="I000001"
//	  type="1" parentaccount="A000025" ...>
//	  <SUBACCOUNTS>
//	    <SUBACCOUNT id="A000070"/>
//	  </SUBACCOUNTS>
//	  <KEYVALUEPAIRS>
//	    <PAIR key="iban" value="DE69700100800876555304"/>
//	    <PAIR key="lastStatementBalance" value="0/1"/>
//	    <PAIR key="mm-closed" value="yes"/>
//	  </KEYVALUEPAIRS>
//	</ACCOUNT>
//
// Root accounts have an empty ParentID. Optional text attributes are empty
// when absent.
type Account struct {
	ID            string
	Name          string
	Currency      string
	InstitutionID string
	Type          AccountType
	ParentID      string
	ChildIDs      []string

	// Extension values from the KEYVALUEPAIRS block.
	LastBalance                 decimal.Decimal
	Closed                      bool
	LastImportedTransactionDate *Date
	IBAN                        string
}

// IsRoot reports whether the account declares no parent.
func (a *Account) IsRoot() bool {
	return a.ParentID == ""
}
