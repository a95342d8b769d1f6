package model

// CheckResult is the success document returned to callers
type CheckResult struct {
	AIResult  AIResult       `json:"aiResult"`
	Extracted FactRecord     `json:"extracted"`
	Evidence  EvidenceBundle `json:"evidence"`
}

// AIResult is the caller-facing rendering of a Verdict
type AIResult struct {
	Status Label  `json:"status"` // Verdict label
	Title  string `json:"title"`  // Simplified title (raw title when simplification is empty)
	Reason string `json:"reason"` // Short justification from the reasoning capability
}

// ErrorResponse is the failure document returned to callers
type ErrorResponse struct {
	Error string `json:"error"`
}
