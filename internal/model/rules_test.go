package model

import "testing"

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleAdmin, RoleDonor, RoleRecipient} {
		if !ValidRole(r) {
			t.Errorf("role %q rejected", r)
		}
	}
	for _, r := range []string{"", "ADMIN", "owner", "superuser"} {
		if ValidRole(r) {
			t.Errorf("role %q accepted", r)
		}
	}
}

func TestValidBloodGroup(t *testing.T) {
	for _, g := range []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"} {
		if !ValidBloodGroup(g) {
			t.Errorf("group %q rejected", g)
		}
	}
	for _, g := range []string{"", "C+", "ab+", "O", "A"} {
		if ValidBloodGroup(g) {
			t.Errorf("group %q accepted", g)
		}
	}
}

func TestValidUrgency(t *testing.T) {
	for _, u := range []string{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical} {
		if !ValidUrgency(u) {
			t.Errorf("urgency %q rejected", u)
		}
	}
	if ValidUrgency("urgent") || ValidUrgency("") {
		t.Error("unknown urgency accepted")
	}
}

func TestRequestStatusSet(t *testing.T) {
	for _, s := range []string{StatusPending, StatusApproved, StatusRejected} {
		if !ValidRequestStatus(s) {
			t.Errorf("status %q rejected", s)
		}
	}
	// Donation-only states are not legal on requests.
	if ValidRequestStatus(StatusCommitted) || ValidRequestStatus(StatusAvailable) {
		t.Error("donation-only status accepted on request")
	}
}

func TestDonationStatusSets(t *testing.T) {
	for _, s := range []string{StatusPending, StatusAvailable, StatusCommitted, StatusApproved, StatusRejected} {
		if !ValidDonationStatus(s) {
			t.Errorf("stored status %q rejected", s)
		}
	}
	// Admins may not transition into the entry states.
	if ValidDonationTransition(StatusCommitted) || ValidDonationTransition(StatusAvailable) {
		t.Error("entry state accepted as admin transition target")
	}
	for _, s := range []string{StatusPending, StatusApproved, StatusRejected} {
		if !ValidDonationTransition(s) {
			t.Errorf("transition target %q rejected", s)
		}
	}
}

func TestMutable(t *testing.T) {
	// Only approval freezes an entity; pending and rejected rows stay
	// owner-editable.
	if Mutable(StatusApproved) {
		t.Error("approved entity reported mutable")
	}
	for _, s := range []string{StatusPending, StatusRejected, StatusCommitted, StatusAvailable} {
		if !Mutable(s) {
			t.Errorf("status %q reported immutable", s)
		}
	}
}
