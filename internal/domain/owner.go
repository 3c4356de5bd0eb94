package domain

import "github.com/google/uuid"

// OwnerKey scopes a cart or wishlist to either an authenticated user or an
// anonymous session. Exactly one of the two fields is set.
type OwnerKey struct {
	UserID    *uuid.UUID
	SessionID *uuid.UUID
}

func UserOwner(id uuid.UUID) OwnerKey    { return OwnerKey{UserID: &id} }
func SessionOwner(id uuid.UUID) OwnerKey { return OwnerKey{SessionID: &id} }

func (k OwnerKey) Valid() bool {
	return (k.UserID != nil) != (k.SessionID != nil)
}
