package handler

// Handlers for donors to manage their donation offers.  Two creation paths
// exist: a standalone offer starts as pending and needs admin approval
// before it is generally visible, while an offer made directly against an
// approved request starts as committed and is immediately visible to that
// request's recipient.

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
	"github.com/jchiwaii/blood-donations-sub000/internal/queue"
	"github.com/jchiwaii/blood-donations-sub000/internal/repository"
	queue_publisher "github.com/jchiwaii/blood-donations-sub000/internal/service"
)

// DonorHandler bundles repositories for donor-scoped endpoints.
type DonorHandler struct {
	Donations *repository.DonationRepo
	Requests  *repository.RequestRepo
	Media     *repository.MediaRepo
}

func NewDonorHandler(don *repository.DonationRepo, req *repository.RequestRepo, media *repository.MediaRepo) *DonorHandler {
	if don == nil || req == nil || media == nil {
		panic("nil repository passed to NewDonorHandler")
	}
	return &DonorHandler{Donations: don, Requests: req, Media: media}
}

// donationBody carries the client-supplied fields of a donation offer.
type donationBody struct {
	BloodGroup     string   `json:"blood_group"`
	UnitsAvailable uint32   `json:"units_available"`
	AvailableOn    string   `json:"available_on"` // YYYY-MM-DD
	ContactPhone   string   `json:"contact_phone"`
	Address        string   `json:"address"`
	MedicalNotes   string   `json:"medical_notes"`
	ProofURLs      []string `json:"proof_urls"`
}

// validate normalizes the body and returns a field-level message on bad
// input, plus the parsed availability date on success.
func (b *donationBody) validate() (time.Time, string) {
	b.BloodGroup = strings.ToUpper(strings.TrimSpace(b.BloodGroup))
	b.ContactPhone = strings.TrimSpace(b.ContactPhone)
	b.Address = strings.TrimSpace(b.Address)

	switch {
	case !model.ValidBloodGroup(b.BloodGroup):
		return time.Time{}, "blood_group must be a valid ABO/Rh group"
	case b.UnitsAvailable < 1:
		return time.Time{}, "units_available must be at least 1"
	case b.ContactPhone == "":
		return time.Time{}, "contact_phone is required"
	case b.Address == "":
		return time.Time{}, "address is required"
	}
	on, err := time.Parse("2006-01-02", strings.TrimSpace(b.AvailableOn))
	if err != nil {
		return time.Time{}, "available_on must be a YYYY-MM-DD date"
	}
	return on, ""
}

func (b *donationBody) fields(on time.Time) model.BloodDonation {
	d := model.BloodDonation{
		BloodGroup:     b.BloodGroup,
		UnitsAvailable: b.UnitsAvailable,
		AvailableOn:    on,
		ContactPhone:   b.ContactPhone,
		Address:        b.Address,
	}
	if n := strings.TrimSpace(b.MedicalNotes); n != "" {
		d.MedicalNotes = &n
	}
	return d
}

// CreateDonation handles POST /v1/donor/donations: a standalone offer.
func (h *DonorHandler) CreateDonation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var body donationBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	on, msg := body.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	d := body.fields(on)
	d.DonorID = uid

	ctx := c.Request().Context()
	if err := h.Donations.Create(ctx, &d); err != nil {
		return fail(c, http.StatusInternalServerError, "create donation failed")
	}
	if len(body.ProofURLs) > 0 {
		if err := h.Media.Add(ctx, model.RelatedDonation, d.ID, body.ProofURLs); err != nil {
			c.Logger().Errorf("attach proofs for donation %d: %v", d.ID, err)
		}
	}
	return respond(c, http.StatusCreated, d, "donation submitted for review")
}

// DonateToRequest handles POST /v1/donor/requests/:id/donate: an offer
// made directly against an approved request.  The resulting donation is
// committed immediately, without admin review.
func (h *DonorHandler) DonateToRequest(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	reqID, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}
	var body donationBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	on, msg := body.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	d := body.fields(on)
	d.DonorID = uid

	ctx := c.Request().Context()
	if err := h.Donations.CreateForRequest(ctx, &d, reqID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "request not found")
		case errors.Is(err, repository.ErrNotApproved):
			return fail(c, http.StatusConflict, "request is not open for donations")
		}
		return fail(c, http.StatusInternalServerError, "create donation failed")
	}
	if len(body.ProofURLs) > 0 {
		if err := h.Media.Add(ctx, model.RelatedDonation, d.ID, body.ProofURLs); err != nil {
			c.Logger().Errorf("attach proofs for donation %d: %v", d.ID, err)
		}
	}

	// Audit trail only; a broker outage must not fail the commitment.
	_ = queue_publisher.PublishDonationCommitted(ctx, queue.DonationCommittedEvent{
		DonationID:  d.ID,
		RequestID:   reqID,
		DonorID:     uid,
		BloodGroup:  d.BloodGroup,
		Units:       d.UnitsAvailable,
		CommittedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return respond(c, http.StatusCreated, d, "donation committed to request")
}

// UpdateDonation handles PUT /v1/donor/donations/:id.
func (h *DonorHandler) UpdateDonation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid donation id")
	}
	var body donationBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	on, msg := body.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	updated, err := h.Donations.Update(c.Request().Context(), id, uid, body.fields(on))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "donation not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, "forbidden")
		}
		return fail(c, http.StatusInternalServerError, "update donation failed")
	}
	return respond(c, http.StatusOK, updated, "donation updated")
}

// DeleteDonation handles DELETE /v1/donor/donations/:id.
func (h *DonorHandler) DeleteDonation(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid donation id")
	}

	ctx := c.Request().Context()
	if err := h.Donations.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "donation not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, "forbidden")
		}
		return fail(c, http.StatusInternalServerError, "delete donation failed")
	}
	if err := h.Media.DeleteFor(ctx, model.RelatedDonation, id); err != nil {
		c.Logger().Errorf("delete proofs for donation %d: %v", id, err)
	}
	return respond(c, http.StatusOK, nil, "donation deleted")
}

// ListMyDonations handles GET /v1/donor/donations.  Rejected offers are
// filtered out of the donor's own management view; they reappear if an
// admin moves them back to pending.
func (h *DonorHandler) ListMyDonations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	items, err := h.Donations.ListByDonorActive(c.Request().Context(), uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load donations failed")
	}
	return respond(c, http.StatusOK, echo.Map{"items": items, "count": len(items)}, "")
}
