package ledger

import "github.com/robinvdvleuten/kmy/model"

// ValidateTransaction checks the double-entry invariant: the values of all
// splits must sum to exactly zero.
func ValidateTransaction(tx *model.Transaction) error {
	residual := tx.Sum()
	if residual.IsZero() {
		return nil
	}
	return &TransactionNotBalancedError{
		TransactionID: tx.ID,
		PostDate:      tx.PostDate,
		Memo:          tx.Memo,
		Commodity:     tx.Commodity,
		Residual:      residual,
	}
}

// Validate checks every transaction for balance and every split for a known
// account. Loading never runs these checks; they are advisory. All problems
// are collected into a *ValidationErrors.
func (l *Ledger) Validate() error {
	var errs []error

	for _, tx := range l.transactions {
		if err := ValidateTransaction(tx); err != nil {
			errs = append(errs, err)
		}
		for _, s := range tx.Splits {
			if _, ok := l.accountIndex[s.AccountID]; !ok {
				errs = append(errs, &UnknownAccountError{
					TransactionID: tx.ID,
					SplitID:       s.ID,
					AccountID:     s.AccountID,
				})
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}
