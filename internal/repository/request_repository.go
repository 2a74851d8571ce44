package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
)

// RequestRepo provides CRUD and lifecycle operations for blood requests.
// Ownership and status invariants are enforced here, inside row-locking
// transactions, so that a check never races the mutation it guards: an
// edit and an approval of the same request serialize on the row lock.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

// DB exposes the underlying handle for callers that need to coordinate a
// transaction across repositories.
func (r *RequestRepo) DB() *sql.DB { return r.db }

const requestColumns = `id, recipient_id, title, description, blood_group, units_required,
	urgency, status, contact_name, contact_phone, address, created_at, updated_at`

func scanRequest(row interface {
	Scan(dest ...any) error
}, req *model.BloodRequest) error {
	return row.Scan(&req.ID, &req.RecipientID, &req.Title, &req.Description, &req.BloodGroup,
		&req.UnitsRequired, &req.Urgency, &req.Status, &req.ContactName, &req.ContactPhone,
		&req.Address, &req.CreatedAt, &req.UpdatedAt)
}

// Create inserts a new request in the pending status and reads the row
// back to populate generated fields on the provided struct.
func (r *RequestRepo) Create(ctx context.Context, req *model.BloodRequest) error {
	const q = `INSERT INTO blood_requests
		(recipient_id, title, description, blood_group, units_required, urgency, status,
		 contact_name, contact_phone, address)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		req.RecipientID, req.Title, req.Description, req.BloodGroup, req.UnitsRequired,
		req.Urgency, model.StatusPending, req.ContactName, req.ContactPhone, req.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	return scanRequest(r.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM blood_requests WHERE id=?", req.ID), req)
}

// GetByID fetches a request regardless of status or owner.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.BloodRequest, error) {
	var req model.BloodRequest
	err := scanRequest(r.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM blood_requests WHERE id=? LIMIT 1", id), &req)
	return req, err
}

// ListByRecipient returns all requests owned by the given recipient,
// newest first, in every status.
func (r *RequestRepo) ListByRecipient(ctx context.Context, recipientID uint64) ([]model.BloodRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM blood_requests WHERE recipient_id=? ORDER BY id DESC",
		recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BloodRequest{}
	for rows.Next() {
		var req model.BloodRequest
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ListAll returns every request in every status, newest first.  Admin
// review screens only.
func (r *RequestRepo) ListAll(ctx context.Context) ([]model.BloodRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM blood_requests ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BloodRequest{}
	for rows.Next() {
		var req model.BloodRequest
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ApprovedSummary is the donor-facing projection of an approved request.
// It deliberately omits contact fields and address; those are only exposed
// when a donor opens a specific request via GetApprovedDetail.
type ApprovedSummary struct {
	ID            uint64         `json:"id"`
	Title         string         `json:"title"`
	BloodGroup    string         `json:"blood_group"`
	UnitsRequired uint32         `json:"units_required"`
	Urgency       string         `json:"urgency"`
	CreatedAt     time.Time      `json:"created_at"`
	Recipient     model.Identity `json:"recipient"`
}

// ListApproved returns approved requests joined with the minimal recipient
// identity (id, name), most urgent-recent first.
func (r *RequestRepo) ListApproved(ctx context.Context) ([]ApprovedSummary, error) {
	const q = `SELECT r.id, r.title, r.blood_group, r.units_required, r.urgency, r.created_at,
			u.id, u.name
		FROM blood_requests r
		JOIN identities u ON u.id = r.recipient_id
		WHERE r.status = ?
		ORDER BY FIELD(r.urgency,'critical','high','medium','low'), r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ApprovedSummary{}
	for rows.Next() {
		var s ApprovedSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.BloodGroup, &s.UnitsRequired, &s.Urgency,
			&s.CreatedAt, &s.Recipient.ID, &s.Recipient.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ApprovedDetail is the full view of an approved request a donor opens,
// including contact fields and the recipient's name.
type ApprovedDetail struct {
	model.BloodRequest
	Recipient model.Identity `json:"recipient"`
}

// GetApprovedDetail fetches a single approved request with contact fields.
// A request that is missing or not currently approved yields sql.ErrNoRows
// so donors cannot probe for unapproved entries.
func (r *RequestRepo) GetApprovedDetail(ctx context.Context, id uint64) (ApprovedDetail, error) {
	const q = `SELECT r.id, r.recipient_id, r.title, r.description, r.blood_group,
			r.units_required, r.urgency, r.status, r.contact_name, r.contact_phone, r.address,
			r.created_at, r.updated_at, u.id, u.name
		FROM blood_requests r
		JOIN identities u ON u.id = r.recipient_id
		WHERE r.id = ? AND r.status = ?
		LIMIT 1`
	var d ApprovedDetail
	err := r.db.QueryRowContext(ctx, q, id, model.StatusApproved).Scan(
		&d.ID, &d.RecipientID, &d.Title, &d.Description, &d.BloodGroup, &d.UnitsRequired,
		&d.Urgency, &d.Status, &d.ContactName, &d.ContactPhone, &d.Address,
		&d.CreatedAt, &d.UpdatedAt, &d.Recipient.ID, &d.Recipient.Name)
	return d, err
}

// lockRequest reads recipient_id and status under FOR UPDATE inside tx.
func lockRequest(ctx context.Context, tx *sql.Tx, id uint64) (ownerID uint64, status string, err error) {
	err = tx.QueryRowContext(ctx,
		"SELECT recipient_id, status FROM blood_requests WHERE id=? FOR UPDATE",
		id).Scan(&ownerID, &status)
	return
}

// Update replaces the editable fields of a request owned by ownerID.  It
// fails with ErrForbidden when the caller does not own the row or when the
// request is approved; status is never touched here.
func (r *RequestRepo) Update(ctx context.Context, id, ownerID uint64, fields model.BloodRequest) (model.BloodRequest, error) {
	var out model.BloodRequest
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

	owner, status, err := lockRequest(ctx, tx, id)
	if err != nil {
		return out, err // sql.ErrNoRows when missing
	}
	if owner != ownerID {
		return out, ErrForbidden
	}
	if !model.Mutable(status) {
		return out, ErrForbidden
	}

	const q = `UPDATE blood_requests SET title=?, description=?, blood_group=?,
		units_required=?, urgency=?, contact_name=?, contact_phone=?, address=?
		WHERE id=?`
	if _, err := tx.ExecContext(ctx, q, fields.Title, fields.Description, fields.BloodGroup,
		fields.UnitsRequired, fields.Urgency, fields.ContactName, fields.ContactPhone,
		fields.Address, id); err != nil {
		return out, err
	}
	if err := scanRequest(tx.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM blood_requests WHERE id=?", id), &out); err != nil {
		return out, err
	}
	if err := tx.Commit(); err != nil {
		return out, err
	}
	committed = true
	return out, nil
}

// Delete removes a request owned by ownerID.  Approved requests cannot be
// deleted; the admin must first move them back to pending.
func (r *RequestRepo) Delete(ctx context.Context, id, ownerID uint64) error {
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

	owner, status, err := lockRequest(ctx, tx, id)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	if !model.Mutable(status) {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM blood_requests WHERE id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// TransitionStatus moves a request to newStatus on behalf of an admin.
// Any direction is allowed, including approved back to pending.  The
// transition is idempotent: setting the current status again succeeds with
// changed=false and produces no write, so repeated approvals cause no
// duplicate side effects.
func (r *RequestRepo) TransitionStatus(ctx context.Context, id uint64, newStatus string) (oldStatus string, changed bool, err error) {
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

	_, oldStatus, err = lockRequest(ctx, tx, id)
	if err != nil {
		return "", false, err
	}
	if oldStatus != newStatus {
		if _, err = tx.ExecContext(ctx,
			"UPDATE blood_requests SET status=? WHERE id=?", newStatus, id); err != nil {
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
