package domain

// ActionStatus is the terminal state of one action in the orchestrator.
type ActionStatus string

const (
	StatusExecuted        ActionStatus = "executed"
	StatusExecutionFailed ActionStatus = "execution_failed"
	StatusDenied          ActionStatus = "denied"
	StatusRateLimited     ActionStatus = "rate_limited"
	StatusInvalid         ActionStatus = "invalid"
)

// ActionOutcome is the machine-readable result surfaced to the caller for
// one processed action. Err is set only for execution failures.
type ActionOutcome struct {
	Action            ParsedAction   `json:"action"`
	Status            ActionStatus   `json:"status"`
	Risk              RiskAssessment `json:"risk"`
	Reason            string         `json:"reason,omitempty"`
	RetryAfterSeconds int            `json:"retry_after_seconds,omitempty"`
	Err               error          `json:"-"`
}
