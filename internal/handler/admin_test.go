package handler

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jchiwaii/blood-donations-sub000/internal/metrics"
	"github.com/jchiwaii/blood-donations-sub000/internal/repository"
)

func newAdminHandler() *AdminHandler {
	return NewAdminHandler(
		repository.NewRequestRepo(nil),
		repository.NewDonationRepo(nil),
		repository.NewUserRepo(nil),
		metrics.NewMetrics(prometheus.NewRegistry()),
	)
}

func TestTransitionRequestStatusValidation(t *testing.T) {
	cases := []struct {
		name string
		id   string
		body string
	}{
		{"unknown status", "1", `{"status":"archived"}`},
		{"donation-only status", "1", `{"status":"committed"}`},
		{"blank status", "1", `{"status":""}`},
		{"bad id", "zero", `{"status":"approved"}`},
		{"zero id", "0", `{"status":"approved"}`},
	}
	h := newAdminHandler()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestCtx(t, http.MethodPatch, "/v1/admin/requests/"+tc.id+"/status", tc.body, 7)
			c.SetParamNames("id")
			c.SetParamValues(tc.id)
			if err := h.TransitionRequestStatus(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

// Donation transitions accept the same three targets as requests; the
// extra stored states are never legal targets.
func TestTransitionDonationStatusValidation(t *testing.T) {
	h := newAdminHandler()
	for _, status := range []string{"committed", "available", "done"} {
		c, rec := newTestCtx(t, http.MethodPatch, "/v1/admin/donations/1/status", `{"status":"`+status+`"}`, 7)
		c.SetParamNames("id")
		c.SetParamValues("1")
		if err := h.TransitionDonationStatus(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status %q: expected 400, got %d", status, rec.Code)
		}
	}
}
