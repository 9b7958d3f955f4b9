package domain

import "time"

// ApprovalRequest is one outstanding human-approval prompt, owned by the
// coordinator while pending. At most one live request exists per ID.
type ApprovalRequest struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Target    string    `json:"target"`
	Details   string    `json:"details"`
	RiskLevel RiskLevel `json:"risk_level"`
	CreatedAt time.Time `json:"created_at"`
}

// Decision is the terminal outcome of an approval request.
type Decision struct {
	Approved    bool   `json:"approved"`
	AlwaysAllow bool   `json:"always_allow"`
	Reason      string `json:"reason,omitempty"`
}

// Decision reasons recorded in audit details.
const (
	ReasonTimeout  = "timeout"
	ReasonDeclined = "declined"
	ReasonApproved = "approved"
)
