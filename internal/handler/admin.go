package handler

// Admin endpoints: unfiltered review listings over requests, donations
// and identities, and the status transitions that drive both lifecycles.
// Transitions are unrestricted in direction — approved and rejected
// entities can be moved back to pending — and idempotent: re-applying the
// current status succeeds without a write, a metric or an audit event.

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jchiwaii/blood-donations-sub000/internal/metrics"
	"github.com/jchiwaii/blood-donations-sub000/internal/model"
	"github.com/jchiwaii/blood-donations-sub000/internal/queue"
	"github.com/jchiwaii/blood-donations-sub000/internal/repository"
	queue_publisher "github.com/jchiwaii/blood-donations-sub000/internal/service"
)

// AdminHandler bundles repositories for admin-scoped endpoints.
type AdminHandler struct {
	Requests  *repository.RequestRepo
	Donations *repository.DonationRepo
	Users     *repository.UserRepo
	Metrics   *metrics.Metrics
}

func NewAdminHandler(req *repository.RequestRepo, don *repository.DonationRepo, users *repository.UserRepo, m *metrics.Metrics) *AdminHandler {
	if req == nil || don == nil || users == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Requests: req, Donations: don, Users: users, Metrics: m}
}

// ListRequests handles GET /v1/admin/requests: every request, every
// status.
func (h *AdminHandler) ListRequests(c echo.Context) error {
	items, err := h.Requests.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load requests failed")
	}
	return respond(c, http.StatusOK, echo.Map{"items": items, "count": len(items)}, "")
}

// ListDonations handles GET /v1/admin/donations: every donation, every
// status, including rejected ones hidden from the donor's own view.
func (h *AdminHandler) ListDonations(c echo.Context) error {
	items, err := h.Donations.ListAll(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load donations failed")
	}
	return respond(c, http.StatusOK, echo.Map{"items": items, "count": len(items)}, "")
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	items, err := h.Users.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load users failed")
	}
	return respond(c, http.StatusOK, echo.Map{"items": items, "count": len(items)}, "")
}

type transitionReq struct {
	Status string `json:"status"`
}

// TransitionRequestStatus handles PATCH /v1/admin/requests/:id/status.
func (h *AdminHandler) TransitionRequestStatus(c echo.Context) error {
	return h.transition(c, "request", model.ValidRequestStatus, h.Requests.TransitionStatus)
}

// TransitionDonationStatus handles PATCH /v1/admin/donations/:id/status.
func (h *AdminHandler) TransitionDonationStatus(c echo.Context) error {
	return h.transition(c, "donation", model.ValidDonationTransition, h.Donations.TransitionStatus)
}

// transition implements both status endpoints; the two lifecycles differ
// only in their legal target set and the repository performing the move.
func (h *AdminHandler) transition(
	c echo.Context,
	entity string,
	valid func(string) bool,
	apply func(ctx context.Context, id uint64, newStatus string) (string, bool, error),
) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid "+entity+" id")
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if !valid(req.Status) {
		return fail(c, http.StatusBadRequest, "status must be pending, approved or rejected")
	}

	ctx := c.Request().Context()
	oldStatus, changed, err := apply(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, http.StatusNotFound, entity+" not found")
		}
		return fail(c, http.StatusInternalServerError, "transition failed")
	}

	if changed {
		h.Metrics.StatusTransitions.WithLabelValues(entity, req.Status).Inc()
		_ = queue_publisher.PublishStatusChanged(ctx, queue.StatusChangedEvent{
			EntityType: entity,
			EntityID:   id,
			OldStatus:  oldStatus,
			NewStatus:  req.Status,
			AdminID:    adminID,
			ChangedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	return respond(c, http.StatusOK, echo.Map{
		"id":         id,
		"old_status": oldStatus,
		"status":     req.Status,
	}, entity+" status updated")
}
