package domain

import "time"

// Redeemable is a catalog item exchangeable for points. Catalog entries are
// immutable here; availability is toggled by an external admin surface.
type Redeemable struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Cost      int       `json:"cost"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

// BasketEntry records one completed redemption. Entries are append-only:
// never mutated or deleted by this service.
type BasketEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RedeemableID string    `json:"redeemable_id"`
	PointsSpent  int       `json:"points_spent"`
	RedeemedAt   time.Time `json:"redeemed_at"`
}

// RedeemRequest is the payload for a redemption attempt.
type RedeemRequest struct {
	UserID       string `json:"user_id"`
	RedeemableID string `json:"redeemable_id"`
}

// RedeemResponse is returned after a successful redemption.
type RedeemResponse struct {
	Entry      BasketEntry `json:"entry"`
	NewBalance int         `json:"new_balance"`
	Message    string      `json:"message"`
}
