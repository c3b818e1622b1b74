package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/kmy/model"
)

// CyclicAccountTreeError is returned when walking up from an account
// revisits an account already seen in the same walk.
type CyclicAccountTreeError struct {
	ID    string   // Account whose path was requested
	Cycle []string // Ids visited, ending with the repeated one
}

func (e *CyclicAccountTreeError) Error() string {
	return fmt.Sprintf("account %s: cyclic account tree (%s)", e.ID, strings.Join(e.Cycle, " -> "))
}

// AmbiguousPathError is returned when an operation needs exactly one
// account but the path expression matches several.
type AmbiguousPathError struct {
	Expr    string
	Matches []string
}

func (e *AmbiguousPathError) Error() string {
	return fmt.Sprintf("path %q matches %d accounts: %s", e.Expr, len(e.Matches), strings.Join(e.Matches, ", "))
}

// TransactionNotBalancedError is returned when the split values of a
// transaction do not sum to zero.
type TransactionNotBalancedError struct {
	TransactionID string
	PostDate      *model.Date
	Memo          string
	Commodity     string
	Residual      decimal.Decimal
}

func (e *TransactionNotBalancedError) Error() string {
	location := e.PostDate.String()
	if location == "" {
		location = "unposted"
	}
	return fmt.Sprintf("%s: transaction %s does not balance: (%s %s)", location, e.TransactionID, e.Residual, e.Commodity)
}

// UnknownAccountError is returned when a split references an account id
// that is not part of the account table.
type UnknownAccountError struct {
	TransactionID string
	SplitID       string
	AccountID     string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("transaction %s split %s: reference to unknown account %q", e.TransactionID, e.SplitID, e.AccountID)
}

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}
