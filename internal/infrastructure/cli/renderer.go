package cli

import (
	"fmt"
	"strings"

	"github.com/doeshing/aegis-go/internal/domain"
)

// RenderOutcomes prints the pipeline result in a friendly, ASCII-only format.
func RenderOutcomes(result domain.ParseResult, outcomes []domain.ActionOutcome) {
	fmt.Println(result.Summary)
	if len(outcomes) == 0 {
		return
	}

	fmt.Println()
	for i, outcome := range outcomes {
		fmt.Printf("%d. [%s] %s -> %s\n", i+1, outcome.Action.Type, outcome.Action.Target(), statusLabel(outcome))
		if outcome.Risk.Level != "" {
			fmt.Printf("   Risk: %s (%s)\n", strings.ToUpper(string(outcome.Risk.Level)), outcome.Risk.Rationale)
		}
		if outcome.Reason != "" && outcome.Status != domain.StatusExecuted {
			fmt.Printf("   Reason: %s\n", outcome.Reason)
		}
	}
}

func statusLabel(outcome domain.ActionOutcome) string {
	switch outcome.Status {
	case domain.StatusExecuted:
		return "executed"
	case domain.StatusExecutionFailed:
		return "execution failed"
	case domain.StatusDenied:
		return "denied"
	case domain.StatusRateLimited:
		return fmt.Sprintf("rate limited (retry in %ds)", outcome.RetryAfterSeconds)
	case domain.StatusInvalid:
		return "dropped by validation"
	default:
		return string(outcome.Status)
	}
}

// RenderAuditEntries prints recorded audit entries oldest first.
func RenderAuditEntries(entries []domain.AuditEntry) {
	if len(entries) == 0 {
		fmt.Println("No audit entries recorded.")
		return
	}
	for _, entry := range entries {
		verdict := "denied"
		if entry.Approved {
			verdict = "approved"
		}
		fmt.Printf("%s  %-18s %s", entry.Timestamp.Format(domain.TimestampFormat), entry.Type, verdict)
		if target, ok := entry.Details["target"]; ok {
			fmt.Printf("  %v", target)
		}
		if reason, ok := entry.Details["reason"]; ok {
			fmt.Printf("  (%v)", reason)
		}
		fmt.Println()
	}
}
