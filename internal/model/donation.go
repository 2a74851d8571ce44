package model

import "time"

// Donation-only statuses.  Besides the shared pending/approved/rejected
// lifecycle, an offer created directly against an approved request starts
// as committed and is visible to that request's recipient without admin
// review.  "available" survives in the stored enumeration from the legacy
// schema; no current code path produces it but existing rows may carry it.
const (
	StatusCommitted = "committed"
	StatusAvailable = "available"
)

// ValidDonationStatus reports whether s is a status that may legally be
// stored on a donation offer.
func ValidDonationStatus(s string) bool {
	switch s {
	case StatusPending, StatusAvailable, StatusCommitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ValidDonationTransition reports whether s is a status an admin may set on
// a donation offer.  Mirrors ValidRequestStatus: committed and available
// are entry states, not admin targets.
func ValidDonationTransition(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// BloodDonation represents a row in the `blood_donations` table: a donor's
// offer of blood, either standalone or made against a specific approved
// request.
//
// Fields:
//  ID             – primary key identifier.
//  DonorID        – owning donor (identities.id).
//  RequestID      – blood request this offer responds to, nil when standalone.
//  BloodGroup     – offered group (closed set, see ValidBloodGroup).
//  UnitsAvailable – number of units offered, always >= 1.
//  AvailableOn    – date the donor is available to donate.
//  Status         – lifecycle status (see ValidDonationStatus).
//  ContactPhone   – donor's contact number.
//  Address        – donor's location.
//  MedicalNotes   – optional medical info supplied by the donor.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type BloodDonation struct {
	ID             uint64    `json:"id"`
	DonorID        uint64    `json:"donor_id"`
	RequestID      *uint64   `json:"request_id,omitempty"`
	BloodGroup     string    `json:"blood_group"`
	UnitsAvailable uint32    `json:"units_available"`
	AvailableOn    time.Time `json:"available_on"`
	Status         string    `json:"status"`
	ContactPhone   string    `json:"contact_phone"`
	Address        string    `json:"address"`
	MedicalNotes   *string   `json:"medical_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
