// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core depends only on these contracts; concrete adapters in
// the infrastructure layer supply the behavior (pattern extraction, keyword
// classification, SQLite persistence, terminal prompts). Everything stateful
// is injected through constructed instances rather than package globals.
package ports

import (
	"context"

	"github.com/doeshing/aegis-go/internal/domain"
)

// PolicyProvider loads the effective security policy from persistent storage.
// Implementations typically read from ~/.aegis/policy.yaml.
type PolicyProvider interface {
	Load(context.Context) (domain.Policy, error)
}

// Extractor converts free-form assistant text into typed candidate actions.
// Extraction never fails: malformed input degrades to an empty ParseResult.
type Extractor interface {
	Extract(text string) domain.ParseResult
	MinConfidence() float64
	SetMinConfidence(value float64)
}

// ActionValidator applies the conservative shape checks that drop malformed
// or blacklisted candidates before classification. The orchestrator re-applies
// it at dispatch time.
type ActionValidator interface {
	ValidatePath(path string) error
	ValidateCommand(command string) error
}

// SecurityService classifies a command or operation description into a risk
// tier. Pure and deterministic; safe for concurrent use.
type SecurityService interface {
	Classify(text string) domain.RiskAssessment
}

// RateLimiter enforces per-category fixed-window ceilings. Each check counts
// against the window. Safe for concurrent callers.
type RateLimiter interface {
	CheckLimit(category string) domain.RateLimitResult
}

// AuditSink records terminal pipeline outcomes. Append must be safe under
// concurrent callers; entries are immutable once appended.
type AuditSink interface {
	Append(entry domain.AuditEntry) error
	Entries() ([]domain.AuditEntry, error)
}

// AllowList is the standing-exemption store consulted before gating. Matching
// is exact-string only, never pattern based.
type AllowList interface {
	IsAllowed(text string) bool
	Allow(text string) error
}

// ApprovalService manages outstanding human-approval requests keyed by
// correlation ID. RequestApproval returns immediately; the decision arrives
// on the returned channel exactly once, from either a resolution or the
// timeout, whichever fires first.
type ApprovalService interface {
	RequestApproval(operation, target, details string, risk domain.RiskLevel) (string, <-chan domain.Decision)
	ResolveApproval(promptID string, approved, alwaysAllow bool)
}

// ApprovalPresenter receives outbound prompt events destined for the UI
// boundary. HidePrompt fires exactly once per resolved or timed-out request.
type ApprovalPresenter interface {
	ShowPrompt(request domain.ApprovalRequest)
	HidePrompt(promptID string)
}

// ActionExecutor performs the side effects the pipeline has approved. The
// core only decides whether and when to call these.
type ActionExecutor interface {
	CreateFile(ctx context.Context, path, content string) error
	ModifyFile(ctx context.Context, path, content string, lineRange *domain.LineRange) error
	RunCommand(ctx context.Context, command string) (domain.ExecutionResult, error)
	OpenFile(ctx context.Context, path string) error
	AnalyzeFile(ctx context.Context, path string) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
