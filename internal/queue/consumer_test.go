package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAuditLog(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("logs", "audit.log"))
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	return string(b)
}

func TestHandleStatusChangedMessage(t *testing.T) {
	t.Chdir(t.TempDir())

	body, _ := json.Marshal(StatusChangedEvent{
		EntityType: "request",
		EntityID:   42,
		OldStatus:  "pending",
		NewStatus:  "approved",
		AdminID:    1,
		ChangedAt:  "2026-08-31T10:00:00Z",
	})
	if err := handleMessage(body); err != nil {
		t.Fatalf("handle: %v", err)
	}
	line := readAuditLog(t)
	for _, want := range []string{"entity=request", "id=42", "pending -> approved", "admin_id=1"} {
		if !strings.Contains(line, want) {
			t.Fatalf("audit line %q missing %q", line, want)
		}
	}
}

func TestHandleDonationCommittedMessage(t *testing.T) {
	t.Chdir(t.TempDir())

	body, _ := json.Marshal(DonationCommittedEvent{
		DonationID:  7,
		RequestID:   42,
		DonorID:     3,
		BloodGroup:  "O-",
		Units:       2,
		CommittedAt: "2026-08-31T10:05:00Z",
	})
	if err := handleMessage(body); err != nil {
		t.Fatalf("handle: %v", err)
	}
	line := readAuditLog(t)
	for _, want := range []string{"donation_id=7", "request_id=42", "group=O-", "units=2"} {
		if !strings.Contains(line, want) {
			t.Fatalf("audit line %q missing %q", line, want)
		}
	}
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, body := range [][]byte{
		[]byte("not json"),
		[]byte(`{}`),
		[]byte(`{"something":"else"}`),
	} {
		if err := handleMessage(body); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}
