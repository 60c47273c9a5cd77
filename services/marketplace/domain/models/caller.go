package models

import "github.com/google/uuid"

// CallerContext carries the externally supplied identity and attached payment
// value for a mutating ledger call. The ledger trusts both as given; resolving
// them is the account provider's job, never ambient state inside the ledger.
type CallerContext struct {
	Account       uuid.UUID
	AttachedValue int64
}

// NewCallerContext builds a CallerContext for the given account and value.
func NewCallerContext(account uuid.UUID, attachedValue int64) CallerContext {
	return CallerContext{Account: account, AttachedValue: attachedValue}
}
