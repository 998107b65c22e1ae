package enums

import "fmt"

// ProofStatus maps to the proof_status enum in Postgres.
type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "pending"
	ProofStatusApproved ProofStatus = "approved"
	ProofStatusRejected ProofStatus = "rejected"
)

var validProofStatuses = []ProofStatus{
	ProofStatusPending,
	ProofStatusApproved,
	ProofStatusRejected,
}

// String implements fmt.Stringer.
func (p ProofStatus) String() string {
	return string(p)
}

// IsValid reports whether the value matches the canonical proof_status enum.
func (p ProofStatus) IsValid() bool {
	for _, candidate := range validProofStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProofStatus converts raw input into ProofStatus.
func ParseProofStatus(value string) (ProofStatus, error) {
	for _, candidate := range validProofStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid proof status %q", value)
}
