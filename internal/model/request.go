package model

import "time"

// Request lifecycle statuses.  A request always starts as pending.  Admins
// may move it to approved or rejected and back to pending; no other actor
// may change the status.  Once approved, the owning recipient may no longer
// edit or delete the request.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Urgency levels accepted on a blood request.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// bloodGroups is the closed set of ABO/Rh groups accepted on requests and
// donation offers.
var bloodGroups = map[string]bool{
	"A+": true, "A-": true,
	"B+": true, "B-": true,
	"AB+": true, "AB-": true,
	"O+": true, "O-": true,
}

// ValidBloodGroup reports whether s is a known blood group.
func ValidBloodGroup(s string) bool { return bloodGroups[s] }

// ValidUrgency reports whether s is a known urgency level.
func ValidUrgency(s string) bool {
	switch s {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// ValidRequestStatus reports whether s is a status an admin may set on a
// blood request.
func ValidRequestStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Mutable reports whether an entity in the given status may still be edited
// or deleted by its owner.  Only approval freezes an entity; pending and
// rejected rows stay owner-editable.
func Mutable(status string) bool { return status != StatusApproved }

// BloodRequest represents a row in the `blood_requests` table.  A request
// is a recipient's posted need for blood; donors only ever see requests in
// the approved status.
//
// Fields:
//  ID            – primary key identifier.
//  RecipientID   – owning recipient (identities.id).
//  Title         – short headline for the request.
//  Description   – free-form details.
//  BloodGroup    – required group (closed set, see ValidBloodGroup).
//  UnitsRequired – number of units needed, always >= 1.
//  Urgency       – one of the Urgency* constants.
//  Status        – lifecycle status (pending/approved/rejected).
//  ContactName   – person to reach about this request.
//  ContactPhone  – phone number for that person.
//  Address       – where the blood is needed.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type BloodRequest struct {
	ID            uint64    `json:"id"`
	RecipientID   uint64    `json:"recipient_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	BloodGroup    string    `json:"blood_group"`
	UnitsRequired uint32    `json:"units_required"`
	Urgency       string    `json:"urgency"`
	Status        string    `json:"status"`
	ContactName   string    `json:"contact_name"`
	ContactPhone  string    `json:"contact_phone"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
