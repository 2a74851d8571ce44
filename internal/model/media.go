package model

import "time"

// Related-entity discriminators for proof documents.
const (
	RelatedRequest  = "request"
	RelatedDonation = "donation"
)

// ProofDocument associates an externally stored file URL with a request or
// donation.  Upload and storage happen outside this service; only the URL
// and its owning entity are recorded here.
type ProofDocument struct {
	ID          uint64    // proof_documents.id
	RelatedType string    // proof_documents.related_type ("request" | "donation")
	RelatedID   uint64    // proof_documents.related_id
	URL         string    // proof_documents.url
	CreatedAt   time.Time // proof_documents.created_at
}
