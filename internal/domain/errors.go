package domain

import "errors"

// Pipeline error taxonomy. Extraction-level validation failures are dropped
// silently before classification; these sentinels cover the orchestrated path.
var (
	ErrValidation      = errors.New("action failed validation")
	ErrRateLimited     = errors.New("rate limit exceeded")
	ErrRiskDenied      = errors.New("high-risk action with no approval path")
	ErrApprovalDenied  = errors.New("approval declined")
	ErrApprovalTimeout = errors.New("approval timed out")
	ErrExecution       = errors.New("execution failed")
)
