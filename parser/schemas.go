package parser

import "github.com/robinvdvleuten/kmy/model"

// SplitSchema decodes a SPLIT record.
//
//	<SPLIT value="-54/1" account="A000003" id="S0001" action="" bankid="" number=""
//	  payee="P000092" shares="-54/1" reconcileflag="2" reconciledate="" price="1/1" memo=""/>
var SplitSchema = Schema[model.Split]{
	Name: "SPLIT",
	Fields: []Field{
		{Target: "Value", Type: Decimal},
		{Target: "AccountID", Source: "account", Type: Text},
		{Target: "ID", Type: Text},
		{Target: "Action", Type: Text},
		{Target: "BankID", Type: Text},
		{Target: "Number", Type: Text},
		{Target: "PayeeID", Source: "payee", Type: Text},
		{Target: "Shares", Type: Decimal},
		{Target: "ReconcileFlag", Type: Text},
		{Target: "ReconcileDate", Type: Date},
		{Target: "Price", Type: Decimal},
		{Target: "Memo", Type: Text},
	},
}

// TransactionSchema decodes a TRANSACTION record including its splits.
var TransactionSchema = Schema[model.Transaction]{
	Name: "TRANSACTION",
	Fields: []Field{
		{Target: "ID", Type: Text},
		{Target: "Commodity", Type: Text},
		{Target: "PostDate", Type: Date},
		{Target: "EntryDate", Type: Date},
		{Target: "Memo", Type: Text},
	},
	Lists: []List{
		{Target: "Splits", Path: "SPLITS/SPLIT", Elem: splitDecoder},
	},
}

// AccountSchema decodes an ACCOUNT record, its declared sub-accounts and the
// key/value pairs KMyMoney stores for it.
var AccountSchema = Schema[model.Account]{
	Name: "ACCOUNT",
	Fields: []Field{
		{Target: "Name", Type: Text},
		{Target: "Currency", Type: Text},
		{Target: "ID", Type: Text},
		{Target: "InstitutionID", Source: "institution", Type: Text},
		{Target: "Type", Type: Integer},
		{Target: "ParentID", Source: "parentaccount", Type: Text},
	},
	Lists: []List{
		{Target: "ChildIDs", Path: "SUBACCOUNTS/SUBACCOUNT", Elem: AttrValue("id")},
	},
	Extensions: []Extension{
		{Target: "LastBalance", Path: keyValuePath, Key: "lastStatementBalance", Type: Decimal},
		{Target: "Closed", Path: keyValuePath, Key: "mm-closed", Type: Boolean},
		{Target: "LastImportedTransactionDate", Path: keyValuePath, Key: "lastImportedTransactionDate", Type: Date},
		{Target: "IBAN", Path: keyValuePath, Key: "iban", Type: Text},
	},
}

const keyValuePath = "KEYVALUEPAIRS/PAIR"

var (
	splitDecoder       = MustCompile(SplitSchema)
	transactionDecoder = MustCompile(TransactionSchema)
	accountDecoder     = MustCompile(AccountSchema)
)
