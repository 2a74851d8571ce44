package handler

// Handlers for recipients to manage their own blood requests.  A request
// always starts as pending and only an admin moves it to approved or
// rejected; once approved the owner can no longer edit or delete it and
// the repository enforces that inside a row-locking transaction.

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
	"github.com/jchiwaii/blood-donations-sub000/internal/repository"
)

// RecipientHandler bundles repositories for recipient-scoped endpoints.
type RecipientHandler struct {
	Requests  *repository.RequestRepo
	Donations *repository.DonationRepo
	Media     *repository.MediaRepo
}

func NewRecipientHandler(req *repository.RequestRepo, don *repository.DonationRepo, media *repository.MediaRepo) *RecipientHandler {
	if req == nil || don == nil || media == nil {
		panic("nil repository passed to NewRecipientHandler")
	}
	return &RecipientHandler{Requests: req, Donations: don, Media: media}
}

// requestBody carries the client-supplied fields of a blood request.
// ProofURLs is only honored on creation.
type requestBody struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	BloodGroup    string   `json:"blood_group"`
	UnitsRequired uint32   `json:"units_required"`
	Urgency       string   `json:"urgency"`
	ContactName   string   `json:"contact_name"`
	ContactPhone  string   `json:"contact_phone"`
	Address       string   `json:"address"`
	ProofURLs     []string `json:"proof_urls"`
}

// validate normalizes the body in place and returns a field-level message
// when a required field is missing or malformed.
func (b *requestBody) validate() string {
	b.Title = strings.TrimSpace(b.Title)
	b.BloodGroup = strings.ToUpper(strings.TrimSpace(b.BloodGroup))
	b.Urgency = strings.ToLower(strings.TrimSpace(b.Urgency))
	b.ContactName = strings.TrimSpace(b.ContactName)
	b.ContactPhone = strings.TrimSpace(b.ContactPhone)
	b.Address = strings.TrimSpace(b.Address)

	switch {
	case b.Title == "":
		return "title is required"
	case !model.ValidBloodGroup(b.BloodGroup):
		return "blood_group must be a valid ABO/Rh group"
	case b.UnitsRequired < 1:
		return "units_required must be at least 1"
	case !model.ValidUrgency(b.Urgency):
		return "urgency must be low, medium, high or critical"
	case b.ContactName == "" || b.ContactPhone == "":
		return "contact_name and contact_phone are required"
	case b.Address == "":
		return "address is required"
	}
	return ""
}

func (b *requestBody) fields() model.BloodRequest {
	return model.BloodRequest{
		Title:         b.Title,
		Description:   b.Description,
		BloodGroup:    b.BloodGroup,
		UnitsRequired: b.UnitsRequired,
		Urgency:       b.Urgency,
		ContactName:   b.ContactName,
		ContactPhone:  b.ContactPhone,
		Address:       b.Address,
	}
}

// CreateRequest handles POST /v1/recipient/requests.
func (h *RecipientHandler) CreateRequest(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var body requestBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := body.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	req := body.fields()
	req.RecipientID = uid

	ctx := c.Request().Context()
	if err := h.Requests.Create(ctx, &req); err != nil {
		return fail(c, http.StatusInternalServerError, "create request failed")
	}
	if len(body.ProofURLs) > 0 {
		// Proof rows are best-effort; the request itself is already saved.
		if err := h.Media.Add(ctx, model.RelatedRequest, req.ID, body.ProofURLs); err != nil {
			c.Logger().Errorf("attach proofs for request %d: %v", req.ID, err)
		}
	}
	return respond(c, http.StatusCreated, req, "request created")
}

// UpdateRequest handles PUT /v1/recipient/requests/:id.
func (h *RecipientHandler) UpdateRequest(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}
	var body requestBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := body.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	updated, err := h.Requests.Update(c.Request().Context(), id, uid, body.fields())
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "request not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, "forbidden")
		}
		return fail(c, http.StatusInternalServerError, "update request failed")
	}
	return respond(c, http.StatusOK, updated, "request updated")
}

// DeleteRequest handles DELETE /v1/recipient/requests/:id.
func (h *RecipientHandler) DeleteRequest(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}

	ctx := c.Request().Context()
	if err := h.Requests.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "request not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, "forbidden")
		}
		return fail(c, http.StatusInternalServerError, "delete request failed")
	}
	if err := h.Media.DeleteFor(ctx, model.RelatedRequest, id); err != nil {
		c.Logger().Errorf("delete proofs for request %d: %v", id, err)
	}
	return respond(c, http.StatusOK, nil, "request deleted")
}

// ownedRequest pairs a request with its proof URLs for the owner's view.
type ownedRequest struct {
	model.BloodRequest
	ProofURLs []string `json:"proof_urls"`
}

// ListMyRequests handles GET /v1/recipient/requests.  Owners see all of
// their requests in every status, with attached proofs.
func (h *RecipientHandler) ListMyRequests(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx := c.Request().Context()
	reqs, err := h.Requests.ListByRecipient(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load requests failed")
	}
	out := make([]ownedRequest, 0, len(reqs))
	for _, r := range reqs {
		urls, err := h.Media.ListFor(ctx, model.RelatedRequest, r.ID)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "load requests failed")
		}
		out = append(out, ownedRequest{BloodRequest: r, ProofURLs: urls})
	}
	return respond(c, http.StatusOK, echo.Map{"items": out, "count": len(out)}, "")
}

// ListRequestDonations handles GET /v1/recipient/requests/:id/donations:
// donation offers committed or approved against one of the caller's own
// requests, with donor identity and contact details.
func (h *RecipientHandler) ListRequestDonations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	offers, err := h.Donations.ListForRequest(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fail(c, http.StatusNotFound, "request not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, "forbidden")
		}
		return fail(c, http.StatusInternalServerError, "load donations failed")
	}
	return respond(c, http.StatusOK, echo.Map{"items": offers, "count": len(offers)}, "")
}
