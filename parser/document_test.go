package parser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/kmy/model"
	"github.com/robinvdvleuten/kmy/parser"
)

const ledgerSource = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE KMYMONEY-FILE>
<KMYMONEY-FILE>
 <TRANSACTIONS count="2">
  <TRANSACTION commodity="EUR" id="T000000000000000001" postdate="2006-09-01" entrydate="2012-01-19" memo="">
   <SPLITS>
    <SPLIT value="-30537/25" account="A000110" id="S0001" action="" bankid="" number="" payee="" shares="-30537/25" reconcileflag="0" reconciledate="" price="1/1" memo="Repayment"/>
    <SPLIT value="30537/25" account="A000079" id="S0002" action="" bankid="" number="" payee="" shares="30537/25" reconcileflag="0" reconciledate="" price="1/1" memo="Repayment"/>
   </SPLITS>
  </TRANSACTION>
  <TRANSACTION commodity="EUR" id="T000000000000000002" postdate="2009-09-16" entrydate="2009-09-20" memo="Card">
   <SPLITS>
    <SPLIT value="-54/1" account="A000003" id="S0001" action="" bankid="A000003-2009-09-16-adc4d00-1" number="" payee="P000092" shares="-54/1" reconcileflag="2" reconciledate="2009-10-01" price="1/1" memo="INTERNET"/>
    <SPLIT value="54/1" account="A000200" id="S0002" action="" bankid="" number="" payee="P000092" shares="54/1" reconcileflag="0" reconciledate="" price="1/1" memo=""/>
   </SPLITS>
  </TRANSACTION>
 </TRANSACTIONS>
 <ACCOUNTS count="3">
  <ACCOUNT currency="EUR" id="AStd::Income" lastreconciled="" lastmodified="" name="Income" institution="" number="" type="12" opened="" parentaccount="" description="">
   <SUBACCOUNTS>
    <SUBACCOUNT id="A000070"/>
    <SUBACCOUNT id="A000073"/>
   </SUBACCOUNTS>
  </ACCOUNT>
  <ACCOUNT currency="EUR" id="A000001" lastreconciled="2015-03-25" lastmodified="2017-09-02" name="Joint account" institution="I000001" number="876555304" type="1" opened="2008-07-05" parentaccount="A000025" description="">
   <KEYVALUEPAIRS>
    <PAIR value="DE69700100800876555304" key="iban"/>
    <PAIR value="215;5" key="kmm-iconpos"/>
    <PAIR value="2385/100" key="lastStatementBalance"/>
    <PAIR value="yes" key="mm-closed"/>
    <PAIR value="2015-03-25" key="lastImportedTransactionDate"/>
   </KEYVALUEPAIRS>
  </ACCOUNT>
  <ACCOUNT currency="EUR" id="A000025" name="Bank" institution="" type="9" parentaccount="AStd::Asset"/>
 </ACCOUNTS>
</KMYMONEY-FILE>`

func decodeSource(t *testing.T, source string) (*model.Document, error) {
	t.Helper()
	root, err := parser.ParseBytes(context.Background(), "ledger.kmy", []byte(source))
	assert.NoError(t, err)
	return parser.DecodeDocument(root)
}

func TestDecodeDocumentTransactions(t *testing.T) {
	doc, err := decodeSource(t, ledgerSource)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(doc.Transactions))

	tx := doc.Transactions[0]
	assert.Equal(t, "T000000000000000001", tx.ID)
	assert.Equal(t, "EUR", tx.Commodity)
	assert.Equal(t, "2006-09-01", tx.PostDate.String())
	assert.Equal(t, "2012-01-19", tx.EntryDate.String())
	assert.Equal(t, "", tx.Memo)
	assert.Equal(t, 2, len(tx.Splits))
	assert.True(t, tx.Sum().IsZero())

	split := tx.Splits[0]
	assert.Equal(t, "S0001", split.ID)
	assert.Equal(t, "T000000000000000001", split.TransactionID)
	assert.Equal(t, "A000110", split.AccountID)
	assert.Equal(t, "-1221.48", split.Value.String())
	assert.Equal(t, "-1221.48", split.Shares.String())
	assert.Equal(t, "1", split.Price.String())
	assert.Zero(t, split.ReconcileDate)
	assert.Equal(t, "Repayment", split.Memo)

	card := doc.Transactions[1].Splits[0]
	assert.Equal(t, "T000000000000000002", card.TransactionID)
	assert.Equal(t, "P000092", card.PayeeID)
	assert.Equal(t, "A000003-2009-09-16-adc4d00-1", card.BankID)
	assert.Equal(t, "2", card.ReconcileFlag)
	assert.Equal(t, "2009-10-01", card.ReconcileDate.String())
}

func TestDecodeDocumentAccounts(t *testing.T) {
	doc, err := decodeSource(t, ledgerSource)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(doc.Accounts))

	income := doc.Accounts[0]
	assert.Equal(t, "AStd::Income", income.ID)
	assert.Equal(t, model.AccountTypeIncome, income.Type)
	assert.True(t, income.IsRoot())
	assert.Equal(t, []string{"A000070", "A000073"}, income.ChildIDs)
	assert.True(t, income.LastBalance.IsZero())
	assert.False(t, income.Closed)
	assert.Zero(t, income.LastImportedTransactionDate)
	assert.Equal(t, "", income.IBAN)

	joint := doc.Accounts[1]
	assert.Equal(t, "Joint account", joint.Name)
	assert.Equal(t, "I000001", joint.InstitutionID)
	assert.Equal(t, "A000025", joint.ParentID)
	assert.Equal(t, model.AccountTypeCheckings, joint.Type)
	assert.Equal(t, "23.85", joint.LastBalance.String())
	assert.True(t, joint.Closed)
	assert.Equal(t, "2015-03-25", joint.LastImportedTransactionDate.String())
	assert.Equal(t, "DE69700100800876555304", joint.IBAN)
}

func TestDecodeDocumentMissingAttributeAborts(t *testing.T) {
	source := `<KMYMONEY-FILE><ACCOUNTS>
  <ACCOUNT currency="EUR" id="A1" institution="" type="9" parentaccount=""/>
</ACCOUNTS></KMYMONEY-FILE>`

	doc, err := decodeSource(t, source)
	assert.Zero(t, doc)

	var missing *parser.MissingFieldError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "name", missing.Attr)
	assert.Contains(t, err.Error(), "account A1")
}

func TestDecodeDocumentMalformedValueAborts(t *testing.T) {
	source := `<KMYMONEY-FILE><TRANSACTIONS>
  <TRANSACTION commodity="EUR" id="T1" postdate="2020-01-01" entrydate="" memo="">
   <SPLITS>
    <SPLIT value="12/0" account="A1" id="S0001" action="" bankid="" number="" payee="" shares="1/1" reconcileflag="0" reconciledate="" price="1/1" memo=""/>
   </SPLITS>
  </TRANSACTION>
</TRANSACTIONS></KMYMONEY-FILE>`

	_, err := decodeSource(t, source)
	var malformed *model.MalformedNumberError
	assert.True(t, errors.As(err, &malformed))
	assert.Equal(t, "12/0", malformed.Text)
	assert.Contains(t, err.Error(), "transaction T1")
}

func TestDecodeDocumentDuplicateIDsLastWins(t *testing.T) {
	source := `<KMYMONEY-FILE><ACCOUNTS>
  <ACCOUNT currency="EUR" id="A1" name="First" institution="" type="9" parentaccount=""/>
  <ACCOUNT currency="EUR" id="A2" name="Other" institution="" type="9" parentaccount=""/>
  <ACCOUNT currency="EUR" id="A1" name="Second" institution="" type="9" parentaccount=""/>
</ACCOUNTS></KMYMONEY-FILE>`

	doc, err := decodeSource(t, source)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(doc.Accounts))
	assert.Equal(t, "Second", doc.Accounts[0].Name)
	assert.Equal(t, "Other", doc.Accounts[1].Name)
}

func TestDecodeDocumentEmpty(t *testing.T) {
	doc, err := decodeSource(t, `<KMYMONEY-FILE/>`)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(doc.Accounts))
	assert.Equal(t, 0, len(doc.Transactions))
}
