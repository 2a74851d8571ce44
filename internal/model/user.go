package model

import "time"

// Role names stored in the identities table and carried in the session
// token's "role" claim.  The set is closed; registration rejects anything
// else and the role never changes after creation.
const (
	RoleAdmin     = "admin"
	RoleDonor     = "donor"
	RoleRecipient = "recipient"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleDonor || s == RoleRecipient
}

// User represents a row in the `identities` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown to other users.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of RoleAdmin, RoleDonor, RoleRecipient.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // identities.id
	Name         string    // identities.name
	Email        string    // identities.email
	PasswordHash string    // identities.password_hash
	Role         string    // identities.role
	CreatedAt    time.Time // identities.created_at
	UpdatedAt    time.Time // identities.updated_at
}

// Identity is the minimal public projection of a User returned by session
// resolution and embedded in listings.  It never carries the password hash.
type Identity struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
