package model

import (
	"tably/shared/model"
	"time"
)

const (
	TableName  = "verification_codes"
	EntityName = "verification_code"

	FieldID         = "id"
	FieldIdentityID = "identity_id"
	FieldCode       = "code"
	FieldExpiresAt  = "expires_at"
	FieldConsumed   = "consumed"
)

// VerificationCode is the single active code of an identity. Issuing a new
// code replaces the previous one, and a code is consumed at most once.
type VerificationCode struct {
	ID         string    `db:"id"`
	IdentityID string    `db:"identity_id"`
	Code       string    `db:"code"`
	ExpiresAt  time.Time `db:"expires_at"`
	Consumed   bool      `db:"consumed"`
	model.Metadata
}

// Expired evaluates expiry lazily against the supplied time; nothing
// sweeps stale codes in the background. A code is still redeemable at
// exactly its expiry instant.
func (c *VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Usable reports whether the code can still be redeemed at the given time.
func (c *VerificationCode) Usable(now time.Time) bool {
	return c.ID != "" && !c.Consumed && !c.Expired(now)
}
