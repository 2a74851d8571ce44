package repository

// Database tests run only when TEST_DB_DSN points at a MySQL instance,
// e.g. "root:secret@tcp(127.0.0.1:3306)/blood_test?parseTime=true&loc=UTC".
// The schema is created on demand and rows are cleaned per test run via
// unique emails and fresh inserts.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS identities (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(190) NOT NULL UNIQUE,
		password_hash VARCHAR(120) NOT NULL,
		role ENUM('admin','donor','recipient') NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS blood_requests (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		recipient_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		blood_group VARCHAR(3) NOT NULL,
		units_required INT UNSIGNED NOT NULL,
		urgency ENUM('low','medium','high','critical') NOT NULL,
		status ENUM('pending','approved','rejected') NOT NULL DEFAULT 'pending',
		contact_name VARCHAR(120) NOT NULL,
		contact_phone VARCHAR(40) NOT NULL,
		address VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_requests_recipient (recipient_id),
		KEY idx_requests_status (status)
	)`,
	`CREATE TABLE IF NOT EXISTS blood_donations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		donor_id BIGINT UNSIGNED NOT NULL,
		request_id BIGINT UNSIGNED NULL,
		blood_group VARCHAR(3) NOT NULL,
		units_available INT UNSIGNED NOT NULL,
		available_on DATETIME NOT NULL,
		status ENUM('pending','approved','rejected','committed','available') NOT NULL DEFAULT 'pending',
		contact_phone VARCHAR(40) NOT NULL,
		address VARCHAR(255) NOT NULL,
		medical_notes TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_donations_donor (donor_id),
		KEY idx_donations_request (request_id)
	)`,
	`CREATE TABLE IF NOT EXISTS proof_documents (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		related_type ENUM('request','donation') NOT NULL,
		related_id BIGINT UNSIGNED NOT NULL,
		url VARCHAR(500) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_proofs_related (related_type, related_id)
	)`,
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping database tests")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping test db: %v", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func createTestUser(t *testing.T, users *UserRepo, role string) uint64 {
	t.Helper()
	email := fmt.Sprintf("%s-%d@test.local", role, time.Now().UnixNano())
	id, err := users.Create(context.Background(), "Test "+role, email, "secret1", role, 4)
	if err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	return id
}

func createTestRequest(t *testing.T, requests *RequestRepo, recipientID uint64) model.BloodRequest {
	t.Helper()
	req := model.BloodRequest{
		RecipientID:   recipientID,
		Title:         "Need O- for surgery",
		Description:   "Scheduled cardiac surgery",
		BloodGroup:    "O-",
		UnitsRequired: 2,
		Urgency:       model.UrgencyHigh,
		ContactName:   "Ward Nurse",
		ContactPhone:  "0700111222",
		Address:       "Ward 4, City Hospital",
	}
	if err := requests.Create(context.Background(), &req); err != nil {
		t.Fatalf("create request: %v", err)
	}
	return req
}

func TestRequestLifecycle(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	requests := NewRequestRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, users, model.RoleRecipient)
	stranger := createTestUser(t, users, model.RoleRecipient)
	req := createTestRequest(t, requests, owner)

	if req.Status != model.StatusPending {
		t.Fatalf("new request status = %q, want pending", req.Status)
	}

	// Owner edits while pending.
	fields := req
	fields.Title = "Need O- urgently"
	updated, err := requests.Update(ctx, req.ID, owner, fields)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "Need O- urgently" || updated.Status != model.StatusPending {
		t.Fatalf("unexpected row after update: %+v", updated)
	}

	// Non-owner never gets through, even while pending.
	if _, err := requests.Update(ctx, req.ID, stranger, fields); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger update err = %v, want ErrForbidden", err)
	}
	if err := requests.Delete(ctx, req.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger delete err = %v, want ErrForbidden", err)
	}

	// Approve, then re-apply: second call must be a no-op.
	old, changed, err := requests.TransitionStatus(ctx, req.ID, model.StatusApproved)
	if err != nil || !changed || old != model.StatusPending {
		t.Fatalf("approve = (%q,%v,%v), want (pending,true,nil)", old, changed, err)
	}
	old, changed, err = requests.TransitionStatus(ctx, req.ID, model.StatusApproved)
	if err != nil || changed || old != model.StatusApproved {
		t.Fatalf("re-approve = (%q,%v,%v), want (approved,false,nil)", old, changed, err)
	}

	// Approved rows are frozen for the owner.
	if _, err := requests.Update(ctx, req.ID, owner, fields); !errors.Is(err, ErrForbidden) {
		t.Fatalf("update of approved err = %v, want ErrForbidden", err)
	}
	if err := requests.Delete(ctx, req.ID, owner); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete of approved err = %v, want ErrForbidden", err)
	}

	// Moving back to pending unfreezes it.
	if _, changed, err := requests.TransitionStatus(ctx, req.ID, model.StatusPending); err != nil || !changed {
		t.Fatalf("revert to pending: changed=%v err=%v", changed, err)
	}
	if err := requests.Delete(ctx, req.ID, owner); err != nil {
		t.Fatalf("delete after revert: %v", err)
	}
	if _, err := requests.GetByID(ctx, req.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("get deleted err = %v, want sql.ErrNoRows", err)
	}
}

func TestDonationLifecycle(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	requests := NewRequestRepo(db)
	donations := NewDonationRepo(db)
	ctx := context.Background()

	recipient := createTestUser(t, users, model.RoleRecipient)
	stranger := createTestUser(t, users, model.RoleRecipient)
	donor := createTestUser(t, users, model.RoleDonor)
	req := createTestRequest(t, requests, recipient)

	offer := func() model.BloodDonation {
		return model.BloodDonation{
			DonorID:        donor,
			BloodGroup:     "O-",
			UnitsAvailable: 1,
			AvailableOn:    time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
			ContactPhone:   "0711222333",
			Address:        "Donor Center",
		}
	}

	// Standalone offers start pending.
	standalone := offer()
	if err := donations.Create(ctx, &standalone); err != nil {
		t.Fatalf("create standalone: %v", err)
	}
	if standalone.Status != model.StatusPending || standalone.RequestID != nil {
		t.Fatalf("unexpected standalone: %+v", standalone)
	}

	// Donating against a pending request is refused.
	targeted := offer()
	if err := donations.CreateForRequest(ctx, &targeted, req.ID); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("donate to pending err = %v, want ErrNotApproved", err)
	}
	if err := donations.CreateForRequest(ctx, &targeted, req.ID+1000000); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("donate to missing err = %v, want sql.ErrNoRows", err)
	}

	// After approval the offer commits immediately.
	if _, _, err := requests.TransitionStatus(ctx, req.ID, model.StatusApproved); err != nil {
		t.Fatalf("approve request: %v", err)
	}
	if err := donations.CreateForRequest(ctx, &targeted, req.ID); err != nil {
		t.Fatalf("donate to approved: %v", err)
	}
	if targeted.Status != model.StatusCommitted {
		t.Fatalf("targeted status = %q, want committed", targeted.Status)
	}
	if targeted.RequestID == nil || *targeted.RequestID != req.ID {
		t.Fatalf("targeted request_id = %v, want %d", targeted.RequestID, req.ID)
	}

	// The recipient sees the committed offer with donor identity; others
	// are refused.
	offers, err := donations.ListForRequest(ctx, req.ID, recipient)
	if err != nil {
		t.Fatalf("list offers: %v", err)
	}
	if len(offers) != 1 || offers[0].ID != targeted.ID || offers[0].Donor.ID != donor {
		t.Fatalf("unexpected offers: %+v", offers)
	}
	if _, err := donations.ListForRequest(ctx, req.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger list err = %v, want ErrForbidden", err)
	}

	// Rejected offers vanish from the donor's active view and reappear
	// after an admin reverts them.
	if _, _, err := donations.TransitionStatus(ctx, standalone.ID, model.StatusRejected); err != nil {
		t.Fatalf("reject standalone: %v", err)
	}
	active, err := donations.ListByDonorActive(ctx, donor)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, d := range active {
		if d.ID == standalone.ID {
			t.Fatal("rejected offer still listed as active")
		}
	}
	if _, _, err := donations.TransitionStatus(ctx, standalone.ID, model.StatusPending); err != nil {
		t.Fatalf("revert standalone: %v", err)
	}
	active, err = donations.ListByDonorActive(ctx, donor)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	found := false
	for _, d := range active {
		if d.ID == standalone.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("reverted offer missing from active list")
	}
}

func TestDuplicateEmailMapsToSentinel(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	email := fmt.Sprintf("dup-%d@test.local", time.Now().UnixNano())
	if _, err := users.Create(ctx, "First", email, "secret1", model.RoleDonor, 4); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := users.Create(ctx, "Second", email, "secret1", model.RoleDonor, 4); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate create err = %v, want ErrEmailExists", err)
	}
}

func TestProofDocuments(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	requests := NewRequestRepo(db)
	media := NewMediaRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, users, model.RoleRecipient)
	req := createTestRequest(t, requests, owner)

	urls := []string{"https://proofs.local/a.pdf", "https://proofs.local/b.pdf"}
	if err := media.Add(ctx, model.RelatedRequest, req.ID, urls); err != nil {
		t.Fatalf("add proofs: %v", err)
	}
	got, err := media.ListFor(ctx, model.RelatedRequest, req.ID)
	if err != nil {
		t.Fatalf("list proofs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d proofs, want 2", len(got))
	}
	if err := media.DeleteFor(ctx, model.RelatedRequest, req.ID); err != nil {
		t.Fatalf("delete proofs: %v", err)
	}
	got, err = media.ListFor(ctx, model.RelatedRequest, req.ID)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d proofs after delete, want 0", len(got))
	}
}
