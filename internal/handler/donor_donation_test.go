package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/jchiwaii/blood-donations-sub000/internal/repository"
)

func newDonorHandler() *DonorHandler {
	return NewDonorHandler(
		repository.NewDonationRepo(nil),
		repository.NewRequestRepo(nil),
		repository.NewMediaRepo(nil),
	)
}

func TestCreateDonationValidation(t *testing.T) {
	valid := `{"blood_group":"a+","units_available":1,"available_on":"2026-09-15",
		"contact_phone":"0711000000","address":"Kisumu"}`

	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad blood group", strings.Replace(valid, `"blood_group":"a+"`, `"blood_group":"X"`, 1), "blood_group"},
		{"zero units", strings.Replace(valid, `"units_available":1`, `"units_available":0`, 1), "units_available"},
		{"missing phone", strings.Replace(valid, `"contact_phone":"0711000000"`, `"contact_phone":""`, 1), "contact_phone"},
		{"missing address", strings.Replace(valid, `"address":"Kisumu"`, `"address":" "`, 1), "address"},
		{"bad date", strings.Replace(valid, `"available_on":"2026-09-15"`, `"available_on":"15/09/2026"`, 1), "available_on"},
		{"empty date", strings.Replace(valid, `"available_on":"2026-09-15"`, `"available_on":""`, 1), "available_on"},
	}

	h := newDonorHandler()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestCtx(t, http.MethodPost, "/v1/donor/donations", tc.body, 2)
			if err := h.CreateDonation(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if msg, _ := env["error"].(string); !strings.Contains(msg, tc.want) {
				t.Fatalf("error %q does not mention %q", msg, tc.want)
			}
		})
	}
}

func TestDonateToRequestRejectsBadID(t *testing.T) {
	h := newDonorHandler()
	c, rec := newTestCtx(t, http.MethodPost, "/v1/donor/requests/0/donate", "{}", 2)
	c.SetParamNames("id")
	c.SetParamValues("0")
	if err := h.DonateToRequest(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
