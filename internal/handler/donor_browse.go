package handler

// Donor-facing browse endpoints over approved blood requests.  Listings
// expose only the minimal recipient identity (id, name); contact fields
// and address appear first when a donor opens one specific request.

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
	"github.com/jchiwaii/blood-donations-sub000/internal/repository"
)

// ListApprovedRequests handles GET /v1/donor/requests.
func (h *DonorHandler) ListApprovedRequests(c echo.Context) error {
	items, err := h.Requests.ListApproved(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load requests failed")
	}
	return respond(c, http.StatusOK, echo.Map{"items": items, "count": len(items)}, "")
}

// approvedDetail pairs the full request view with its proof URLs.
type approvedDetail struct {
	repository.ApprovedDetail
	ProofURLs []string `json:"proof_urls"`
}

// GetApprovedRequest handles GET /v1/donor/requests/:id.  Requests that
// are missing or not currently approved answer identically, so the
// endpoint cannot be used to probe for unapproved entries.
func (h *DonorHandler) GetApprovedRequest(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}
	ctx := c.Request().Context()
	detail, err := h.Requests.GetApprovedDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, "request not found")
		}
		return fail(c, http.StatusInternalServerError, "load request failed")
	}
	urls, err := h.Media.ListFor(ctx, model.RelatedRequest, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load request failed")
	}
	return respond(c, http.StatusOK, approvedDetail{ApprovedDetail: detail, ProofURLs: urls}, "")
}
