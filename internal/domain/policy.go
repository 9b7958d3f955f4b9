package domain

// Policy mirrors ~/.aegis/policy.yaml. It is the single explicit security
// configuration consumed by the pipeline; nothing reads global settings.
type Policy struct {
	PolicyFormatVersion string             `yaml:"policy_format_version"`
	Extraction          ExtractionSettings `yaml:"extraction"`
	Validation          ValidationLimits   `yaml:"validation"`
	Rules               RiskRules          `yaml:"rules"`
	Approval            ApprovalSettings   `yaml:"approval"`
	RateLimits          []RateLimitRule    `yaml:"rate_limits"`
	Audit               AuditSettings      `yaml:"audit"`
}

// ExtractionSettings tunes the action extractor.
type ExtractionSettings struct {
	MinConfidence float64 `yaml:"min_confidence"`
}

// ValidationLimits bound the shape of paths and commands accepted from
// free-form model output.
type ValidationLimits struct {
	MaxPathLength      int      `yaml:"max_path_length"`
	MaxCommandLength   int      `yaml:"max_command_length"`
	ForbiddenPathChars string   `yaml:"forbidden_path_chars"`
	DangerousCommands  []string `yaml:"dangerous_commands"`
}

// DangerPattern describes a regex-based high-risk rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// RiskRules holds the classifier keyword configuration.
type RiskRules struct {
	DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	MediumKeywords []string        `yaml:"medium_keywords"`
}

// ApprovalSettings controls human-approval gating.
type ApprovalSettings struct {
	TimeoutSeconds int  `yaml:"timeout_seconds"`
	GateMedium     bool `yaml:"gate_medium"`
}

// RateLimitRule configures one category's fixed window.
type RateLimitRule struct {
	Category      string `yaml:"category"`
	Limit         int    `yaml:"limit"`
	WindowSeconds int    `yaml:"window_seconds"`
}

// AuditSettings selects the audit sink backend.
type AuditSettings struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path"`
}
