package model

// EvidenceBundle pairs the free-text evidence gathered for a listing.
// Either half is nil when the subject was unknown or the knowledge
// source returned nothing.
type EvidenceBundle struct {
	BrandEvidence  *string `json:"brandEvidence"`
	SellerEvidence *string `json:"sellerEvidence"`
}

// Empty reports whether no evidence was gathered at all
func (e EvidenceBundle) Empty() bool {
	return e.BrandEvidence == nil && e.SellerEvidence == nil
}
