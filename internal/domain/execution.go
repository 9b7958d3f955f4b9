package domain

// ExecutionResult captures the observable outcome of one executor call.
type ExecutionResult struct {
	Ran        bool   `json:"ran"`
	Stdout     string `json:"stdout,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
	Err        error  `json:"-"`
}
