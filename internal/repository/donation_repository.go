package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
)

// DonationRepo provides CRUD and lifecycle operations for donation offers.
// The same locking discipline as RequestRepo applies: every conditional
// mutation locks the row it checks.
type DonationRepo struct {
	db *sql.DB
}

// NewDonationRepo returns a DonationRepo bound to the given database.
func NewDonationRepo(db *sql.DB) *DonationRepo { return &DonationRepo{db: db} }

// DB exposes the underlying handle.
func (r *DonationRepo) DB() *sql.DB { return r.db }

const donationColumns = `id, donor_id, request_id, blood_group, units_available, available_on,
	status, contact_phone, address, medical_notes, created_at, updated_at`

func scanDonation(row interface {
	Scan(dest ...any) error
}, d *model.BloodDonation) error {
	var reqID sql.NullInt64
	var notes sql.NullString
	err := row.Scan(&d.ID, &d.DonorID, &reqID, &d.BloodGroup, &d.UnitsAvailable, &d.AvailableOn,
		&d.Status, &d.ContactPhone, &d.Address, &notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return err
	}
	if reqID.Valid {
		v := uint64(reqID.Int64)
		d.RequestID = &v
	}
	if notes.Valid {
		n := notes.String
		d.MedicalNotes = &n
	}
	return nil
}

// Create inserts a standalone offer in the pending status; it becomes
// generally visible only after an admin approves it.
func (r *DonationRepo) Create(ctx context.Context, d *model.BloodDonation) error {
	const q = `INSERT INTO blood_donations
		(donor_id, request_id, blood_group, units_available, available_on, status,
		 contact_phone, address, medical_notes)
		VALUES (?,NULL,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		d.DonorID, d.BloodGroup, d.UnitsAvailable, d.AvailableOn, model.StatusPending,
		d.ContactPhone, d.Address, d.MedicalNotes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return scanDonation(r.db.QueryRowContext(ctx,
		"SELECT "+donationColumns+" FROM blood_donations WHERE id=?", d.ID), d)
}

// CreateForRequest inserts an offer made directly against an approved
// request.  The offer starts as committed and is immediately visible to
// the request's recipient without admin review.  The request row is locked
// while its status is checked so an admin reverting the approval cannot
// race the commit: a missing request yields sql.ErrNoRows, a non-approved
// one ErrNotApproved.
func (r *DonationRepo) CreateForRequest(ctx context.Context, d *model.BloodDonation, requestID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var status string
	if err := tx.QueryRowContext(ctx,
		"SELECT status FROM blood_requests WHERE id=? FOR UPDATE", requestID).
		Scan(&status); err != nil {
		return err
	}
	if status != model.StatusApproved {
		return ErrNotApproved
	}

	const q = `INSERT INTO blood_donations
		(donor_id, request_id, blood_group, units_available, available_on, status,
		 contact_phone, address, medical_notes)
		VALUES (?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		d.DonorID, requestID, d.BloodGroup, d.UnitsAvailable, d.AvailableOn,
		model.StatusCommitted, d.ContactPhone, d.Address, d.MedicalNotes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	if err := scanDonation(tx.QueryRowContext(ctx,
		"SELECT "+donationColumns+" FROM blood_donations WHERE id=?", d.ID), d); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a donation regardless of status or owner.
func (r *DonationRepo) GetByID(ctx context.Context, id uint64) (model.BloodDonation, error) {
	var d model.BloodDonation
	err := scanDonation(r.db.QueryRowContext(ctx,
		"SELECT "+donationColumns+" FROM blood_donations WHERE id=? LIMIT 1", id), &d)
	return d, err
}

// ListByDonorActive returns the donor's own offers excluding rejected
// ones.  A rejected offer reappears here if an admin later moves it back
// to pending.
func (r *DonationRepo) ListByDonorActive(ctx context.Context, donorID uint64) ([]model.BloodDonation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+donationColumns+" FROM blood_donations WHERE donor_id=? AND status<>? ORDER BY id DESC",
		donorID, model.StatusRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

// ListAll returns every donation in every status, newest first.  Admin
// review screens only; the admin view is deliberately unfiltered.
func (r *DonationRepo) ListAll(ctx context.Context) ([]model.BloodDonation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+donationColumns+" FROM blood_donations ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func collectDonations(rows *sql.Rows) ([]model.BloodDonation, error) {
	out := []model.BloodDonation{}
	for rows.Next() {
		var d model.BloodDonation
		if err := scanDonation(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RequestOffer is the recipient-facing view of a donation made against one
// of their requests, including the donor's identity and contact details.
type RequestOffer struct {
	ID             uint64         `json:"id"`
	BloodGroup     string         `json:"blood_group"`
	UnitsAvailable uint32         `json:"units_available"`
	AvailableOn    time.Time      `json:"available_on"`
	Status         string         `json:"status"`
	ContactPhone   string         `json:"contact_phone"`
	Address        string         `json:"address"`
	MedicalNotes   *string        `json:"medical_notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	Donor          model.Identity `json:"donor"`
}

// ListForRequest returns committed and approved offers against a request,
// for its owning recipient.  A missing request yields sql.ErrNoRows and a
// request owned by someone else ErrForbidden.
func (r *DonationRepo) ListForRequest(ctx context.Context, requestID, recipientID uint64) ([]RequestOffer, error) {
	var owner uint64
	if err := r.db.QueryRowContext(ctx,
		"SELECT recipient_id FROM blood_requests WHERE id=? LIMIT 1", requestID).
		Scan(&owner); err != nil {
		return nil, err
	}
	if owner != recipientID {
		return nil, ErrForbidden
	}

	const q = `SELECT d.id, d.blood_group, d.units_available, d.available_on, d.status,
			d.contact_phone, d.address, d.medical_notes, d.created_at, u.id, u.name
		FROM blood_donations d
		JOIN identities u ON u.id = d.donor_id
		WHERE d.request_id = ? AND d.status IN (?,?)
		ORDER BY d.id DESC`
	rows, err := r.db.QueryContext(ctx, q, requestID, model.StatusCommitted, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RequestOffer{}
	for rows.Next() {
		var o RequestOffer
		var notes sql.NullString
		if err := rows.Scan(&o.ID, &o.BloodGroup, &o.UnitsAvailable, &o.AvailableOn, &o.Status,
			&o.ContactPhone, &o.Address, &notes, &o.CreatedAt, &o.Donor.ID, &o.Donor.Name); err != nil {
			return nil, err
		}
		if notes.Valid {
			n := notes.String
			o.MedicalNotes = &n
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// lockDonation reads donor_id and status under FOR UPDATE inside tx.
func lockDonation(ctx context.Context, tx *sql.Tx, id uint64) (ownerID uint64, status string, err error) {
	err = tx.QueryRowContext(ctx,
		"SELECT donor_id, status FROM blood_donations WHERE id=? FOR UPDATE",
		id).Scan(&ownerID, &status)
	return
}

// Update replaces the editable fields of an offer owned by ownerID.  The
// same immutability rule as requests applies: approved offers are frozen.
// The request linkage and status are never touched here.
func (r *DonationRepo) Update(ctx context.Context, id, ownerID uint64, fields model.BloodDonation) (model.BloodDonation, error) {
	var out model.BloodDonation
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	owner, status, err := lockDonation(ctx, tx, id)
	if err != nil {
		return out, err
	}
	if owner != ownerID {
		return out, ErrForbidden
	}
	if !model.Mutable(status) {
		return out, ErrForbidden
	}

	const q = `UPDATE blood_donations SET blood_group=?, units_available=?, available_on=?,
		contact_phone=?, address=?, medical_notes=? WHERE id=?`
	if _, err := tx.ExecContext(ctx, q, fields.BloodGroup, fields.UnitsAvailable,
		fields.AvailableOn, fields.ContactPhone, fields.Address, fields.MedicalNotes, id); err != nil {
		return out, err
	}
	if err := scanDonation(tx.QueryRowContext(ctx,
		"SELECT "+donationColumns+" FROM blood_donations WHERE id=?", id), &out); err != nil {
		return out, err
	}
	if err := tx.Commit(); err != nil {
		return out, err
	}
	committed = true
	return out, nil
}

// Delete removes an offer owned by ownerID unless it is approved.
func (r *DonationRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	owner, status, err := lockDonation(ctx, tx, id)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	if !model.Mutable(status) {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM blood_donations WHERE id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// TransitionStatus moves an offer to newStatus on behalf of an admin, with
// the same idempotence as RequestRepo.TransitionStatus.
func (r *DonationRepo) TransitionStatus(ctx context.Context, id uint64, newStatus string) (oldStatus string, changed bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, oldStatus, err = lockDonation(ctx, tx, id)
	if err != nil {
		return "", false, err
	}
	if oldStatus != newStatus {
		if _, err = tx.ExecContext(ctx,
			"UPDATE blood_donations SET status=? WHERE id=?", newStatus, id); err != nil {
			return "", false, err
		}
		changed = true
	}
	if err = tx.Commit(); err != nil {
		return "", false, err
	}
	committed = true
	return oldStatus, changed, nil
}
