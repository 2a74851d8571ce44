// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditQueueName is the durable queue carrying lifecycle audit events.
const AuditQueueName = "lifecycle.audit"

// StatusChangedEvent is published after an admin transitions a request or
// donation to a different status.  Idempotent re-transitions (same status
// twice) emit nothing.  It carries enough for downstream consumers to log
// or notify without querying the primary database.
type StatusChangedEvent struct {
	EntityType string `json:"entity_type"` // "request" | "donation"
	EntityID   uint64 `json:"entity_id"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	AdminID    uint64 `json:"admin_id"`
	ChangedAt  string `json:"changed_at"`
}

// DonationCommittedEvent is published when a donor offers blood directly
// against an approved request, which bypasses admin review.
type DonationCommittedEvent struct {
	DonationID  uint64 `json:"donation_id"`
	RequestID   uint64 `json:"request_id"`
	DonorID     uint64 `json:"donor_id"`
	BloodGroup  string `json:"blood_group"`
	Units       uint32 `json:"units"`
	CommittedAt string `json:"committed_at"`
}
