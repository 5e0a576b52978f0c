// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered marketplace account.
//
// Email is the login identifier and is unique across all users (enforced by
// the repository). The password is stored only as a bcrypt hash — the hash
// never leaves the server, hence the `json:"-"` tag.
//
// Favorites, Owned and Rented are sets of property IDs. A property ID appears
// in at most one of Owned/Rented for a given user; the repository's holdings
// table enforces this with its primary key.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	City         string    `json:"city"`
	Favorites    []string  `json:"favorites"`
	Owned        []string  `json:"ownedProperties"`
	Rented       []string  `json:"rentedProperties"`
	Payments     []Payment `json:"payments,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HoldingKind says how a user holds a property: purchased or rented.
type HoldingKind string

const (
	HoldingOwned  HoldingKind = "owned"
	HoldingRented HoldingKind = "rented"
)

// ValidKind reports whether k is one of the two defined holding kinds.
func ValidKind(k HoldingKind) bool {
	return k == HoldingOwned || k == HoldingRented
}
