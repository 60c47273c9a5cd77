package models

// LedgerInfo describes catalog-wide ledger state: the immutable instance name
// (set once at ledger creation) and the number of products ever listed.
type LedgerInfo struct {
	Name         string
	ProductCount int64
}
