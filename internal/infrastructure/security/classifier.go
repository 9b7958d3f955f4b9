// Package security implements the keyword/regex risk classifier. One explicit
// rule configuration drives every classification; there are no package-level
// rule sets.
package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// Classifier implements the SecurityService port. It is pure and
// deterministic: the same input always yields the same assessment.
type Classifier struct {
	patterns       []compiledPattern
	mediumKeywords []string
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule domain.DangerPattern
}

// NewClassifier compiles the rule set. Empty rules hydrate to the built-in
// defaults so a missing policy file still yields a working classifier.
func NewClassifier(rules domain.RiskRules) (*Classifier, error) {
	patterns := rules.DangerPatterns
	if len(patterns) == 0 {
		patterns = DefaultDangerPatterns()
	}
	keywords := rules.MediumKeywords
	if len(keywords) == 0 {
		keywords = DefaultMediumKeywords()
	}

	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(`(?i)` + pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile danger pattern %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}

	lowered := make([]string, len(keywords))
	for i, keyword := range keywords {
		lowered[i] = strings.ToLower(keyword)
	}

	return &Classifier{patterns: compiled, mediumKeywords: lowered}, nil
}

// Classify implements ports.SecurityService. High-risk patterns dominate;
// medium keywords apply only when no pattern matched.
func (c *Classifier) Classify(text string) domain.RiskAssessment {
	for _, pattern := range c.patterns {
		if pattern.re.MatchString(text) {
			return domain.RiskAssessment{
				Level:     domain.RiskHigh,
				Rationale: pattern.rule.Message,
			}
		}
	}

	lowered := strings.ToLower(text)
	for _, keyword := range c.mediumKeywords {
		if strings.Contains(lowered, keyword) {
			return domain.RiskAssessment{
				Level:     domain.RiskMedium,
				Rationale: fmt.Sprintf("contains %q", keyword),
			}
		}
	}

	return domain.RiskAssessment{
		Level:     domain.RiskLow,
		Rationale: "no risky keywords detected",
	}
}

// DefaultDangerPatterns is the built-in high-risk rule set.
func DefaultDangerPatterns() []domain.DangerPattern {
	return []domain.DangerPattern{
		{Pattern: `rm\s+-[rf]`, Message: "recursive or forced delete"},
		{Pattern: `\bdelete\b`, Message: "delete operation"},
		{Pattern: `\bformat\b`, Message: "formatting storage"},
		{Pattern: `mkfs\.`, Message: "creating filesystem"},
		{Pattern: `dd\s+if=`, Message: "raw disk writing"},
		{Pattern: `\bshutdown\b`, Message: "system shutdown"},
		{Pattern: `\breboot\b`, Message: "system reboot"},
		{Pattern: `\bsudo\b`, Message: "privilege escalation"},
		{Pattern: `chmod\s+777`, Message: "overly permissive chmod"},
		{Pattern: `>\s*/dev/(sd[a-z]|nvme)`, Message: "writing to block device"},
		{Pattern: `:\(\)\{\s*:\|:&\s*\};:`, Message: "fork bomb"},
	}
}

// DefaultMediumKeywords is the built-in medium-risk keyword set.
func DefaultMediumKeywords() []string {
	return []string{
		"install",
		"update",
		"upgrade",
		"move",
		"rename",
		"copy",
		"mkdir",
		"git",
	}
}

var _ ports.SecurityService = (*Classifier)(nil)
