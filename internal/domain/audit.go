package domain

import "time"

// AuditEntry records one terminal pipeline outcome. Entries are append-only
// and never mutated after creation.
type AuditEntry struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Approved  bool                   `json:"approved"`
	Details   map[string]interface{} `json:"details"`
}

// Audit entry types, one per terminal orchestrator transition.
const (
	AuditExecuted        = "executed"
	AuditExecutionFailed = "execution_failed"
	AuditDenied          = "denied"
	AuditRateLimited     = "rate_limited"
	AuditValidationDrop  = "validation_drop"
)
