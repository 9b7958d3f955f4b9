// Package services holds the application core that glues the extraction and
// security adapters into one pipeline.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// ActionOrchestrator drives each action through the state machine
// Parsed -> Validated -> {RateLimited | Denied | Approved -> Executed |
// ExecutionFailed}. Every terminal transition appends exactly one audit
// entry, and one action's failure never aborts its siblings.
type ActionOrchestrator struct {
	Extractor  ports.Extractor
	Validator  ports.ActionValidator
	Security   ports.SecurityService
	RateLimits ports.RateLimiter
	Approvals  ports.ApprovalService
	AllowList  ports.AllowList
	Executor   ports.ActionExecutor
	Audit      ports.AuditSink
	Logger     ports.Logger

	// GateMedium routes medium-risk actions through approval as well.
	GateMedium bool
}

// ProcessText runs the full pipeline over one assistant response.
func (o *ActionOrchestrator) ProcessText(ctx context.Context, text string) (domain.ParseResult, []domain.ActionOutcome, error) {
	if err := o.checkDeps(); err != nil {
		return domain.ParseResult{}, nil, err
	}

	result := o.Extractor.Extract(text)
	outcomes := make([]domain.ActionOutcome, 0, len(result.Actions))
	for _, action := range result.Actions {
		outcomes = append(outcomes, o.processAction(ctx, action, nil))
	}
	return result, outcomes, nil
}

// ProcessAction runs one already-parsed action through the pipeline.
func (o *ActionOrchestrator) ProcessAction(ctx context.Context, action domain.ParsedAction) (domain.ActionOutcome, error) {
	if err := o.checkDeps(); err != nil {
		return domain.ActionOutcome{}, err
	}
	return o.processAction(ctx, action, nil), nil
}

// ExecuteCommand is the structured entry for operations already known to be
// commands (terminal execution requests from the UI); it bypasses extraction.
func (o *ActionOrchestrator) ExecuteCommand(ctx context.Context, command, changeID string) (domain.ActionOutcome, error) {
	if err := o.checkDeps(); err != nil {
		return domain.ActionOutcome{}, err
	}
	action := domain.ParsedAction{
		Type:       domain.ActionRunCommand,
		Command:    command,
		Confidence: 1,
	}
	var extra map[string]interface{}
	if changeID != "" {
		extra = map[string]interface{}{"change_id": changeID}
	}
	return o.processAction(ctx, action, extra), nil
}

func (o *ActionOrchestrator) processAction(ctx context.Context, action domain.ParsedAction, extra map[string]interface{}) domain.ActionOutcome {
	outcome := domain.ActionOutcome{Action: action}

	// Validation is re-applied defensively at dispatch time; the extractor
	// has already dropped malformed candidates on the happy path.
	if err := o.validate(action); err != nil {
		outcome.Status = domain.StatusInvalid
		outcome.Reason = err.Error()
		outcome.Err = err
		o.appendAudit(domain.AuditValidationDrop, false, action, outcome, extra)
		return outcome
	}

	if limit := o.RateLimits.CheckLimit(categoryFor(action.Type)); !limit.Allowed {
		outcome.Status = domain.StatusRateLimited
		outcome.Reason = limit.Reason
		outcome.RetryAfterSeconds = limit.RetryAfterSeconds
		outcome.Err = fmt.Errorf("%w: retry after %ds", domain.ErrRateLimited, limit.RetryAfterSeconds)
		o.appendAudit(domain.AuditRateLimited, false, action, outcome, extra)
		return outcome
	}

	input := classificationInput(action)
	outcome.Risk = o.Security.Classify(input)

	if o.requiresApproval(outcome.Risk, input) {
		decision, err := o.awaitApproval(ctx, action, input, outcome.Risk)
		if err != nil || !decision.Approved {
			outcome.Status = domain.StatusDenied
			outcome.Reason = decision.Reason
			outcome.Err = denialError(decision)
			if err != nil {
				outcome.Reason = err.Error()
				outcome.Err = err
			}
			o.appendAudit(domain.AuditDenied, false, action, outcome, extra)
			return outcome
		}
	}

	if err := o.dispatch(ctx, action); err != nil {
		outcome.Status = domain.StatusExecutionFailed
		outcome.Reason = err.Error()
		outcome.Err = fmt.Errorf("%w: %v", domain.ErrExecution, err)
		o.appendAudit(domain.AuditExecutionFailed, true, action, outcome, extra)
		o.logError("action execution failed", outcome.Err, action)
		return outcome
	}

	outcome.Status = domain.StatusExecuted
	o.appendAudit(domain.AuditExecuted, true, action, outcome, extra)
	return outcome
}

// requiresApproval is the single gate decision point: risk tier plus
// allow-list lookup, nothing else.
func (o *ActionOrchestrator) requiresApproval(risk domain.RiskAssessment, input string) bool {
	gated := risk.Level == domain.RiskHigh || (o.GateMedium && risk.Level == domain.RiskMedium)
	if !gated {
		return false
	}
	return o.AllowList == nil || !o.AllowList.IsAllowed(input)
}

func (o *ActionOrchestrator) awaitApproval(ctx context.Context, action domain.ParsedAction, input string, risk domain.RiskAssessment) (domain.Decision, error) {
	if o.Approvals == nil {
		return domain.Decision{}, fmt.Errorf("%w: %s", domain.ErrRiskDenied, risk.Rationale)
	}

	promptID, decisions := o.Approvals.RequestApproval(string(action.Type), action.Target(), risk.Rationale, risk.Level)
	select {
	case decision := <-decisions:
		return decision, nil
	case <-ctx.Done():
		// The pending entry stays owned by the coordinator until its
		// timeout fires; downstream this is just another denial.
		o.logWarn("approval wait canceled", map[string]interface{}{"prompt_id": promptID})
		return domain.Decision{Reason: "canceled"}, nil
	}
}

func (o *ActionOrchestrator) dispatch(ctx context.Context, action domain.ParsedAction) error {
	switch action.Type {
	case domain.ActionCreateFile:
		return o.Executor.CreateFile(ctx, action.FilePath, action.Content)
	case domain.ActionModifyFile:
		return o.Executor.ModifyFile(ctx, action.FilePath, action.Content, action.LineRange)
	case domain.ActionRunCommand:
		_, err := o.Executor.RunCommand(ctx, action.Command)
		return err
	case domain.ActionOpenFile:
		return o.Executor.OpenFile(ctx, action.FilePath)
	case domain.ActionAnalyzeFile:
		return o.Executor.AnalyzeFile(ctx, action.FilePath)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func (o *ActionOrchestrator) validate(action domain.ParsedAction) error {
	switch action.Type {
	case domain.ActionRunCommand:
		return o.Validator.ValidateCommand(action.Command)
	case domain.ActionCreateFile, domain.ActionModifyFile, domain.ActionOpenFile, domain.ActionAnalyzeFile:
		return o.Validator.ValidatePath(action.FilePath)
	default:
		return fmt.Errorf("%w: unknown action type %q", domain.ErrValidation, action.Type)
	}
}

func (o *ActionOrchestrator) appendAudit(entryType string, approved bool, action domain.ParsedAction, outcome domain.ActionOutcome, extra map[string]interface{}) {
	details := map[string]interface{}{
		"action_type": string(action.Type),
		"target":      action.Target(),
	}
	if outcome.Risk.Level != "" {
		details["risk_level"] = string(outcome.Risk.Level)
		details["rationale"] = outcome.Risk.Rationale
	}
	if outcome.Reason != "" {
		details["reason"] = outcome.Reason
	}
	if outcome.RetryAfterSeconds > 0 {
		details["retry_after_seconds"] = outcome.RetryAfterSeconds
	}
	for k, v := range extra {
		details[k] = v
	}

	if err := o.Audit.Append(domain.AuditEntry{
		Type:     entryType,
		Approved: approved,
		Details:  details,
	}); err != nil {
		o.logError("audit append failed", err, action)
	}
}

func (o *ActionOrchestrator) checkDeps() error {
	if o.Extractor == nil || o.Validator == nil || o.Security == nil ||
		o.RateLimits == nil || o.Executor == nil || o.Audit == nil {
		return errors.New("services.ActionOrchestrator dependencies not satisfied")
	}
	return nil
}

func (o *ActionOrchestrator) logError(msg string, err error, action domain.ParsedAction) {
	if o.Logger != nil {
		o.Logger.Error(msg, err, map[string]interface{}{
			"action_type": string(action.Type),
			"target":      action.Target(),
		})
	}
}

func (o *ActionOrchestrator) logWarn(msg string, fields map[string]interface{}) {
	if o.Logger != nil {
		o.Logger.Warn(msg, fields)
	}
}

// classificationInput is the literal text the classifier and allow list see:
// the raw command for executions, an operation description for file actions.
func classificationInput(action domain.ParsedAction) string {
	if action.Type == domain.ActionRunCommand {
		return action.Command
	}
	return fmt.Sprintf("%s %s", operationVerb(action.Type), action.FilePath)
}

func operationVerb(actionType domain.ActionType) string {
	switch actionType {
	case domain.ActionCreateFile:
		return "create file"
	case domain.ActionModifyFile:
		return "modify file"
	case domain.ActionOpenFile:
		return "open file"
	case domain.ActionAnalyzeFile:
		return "analyze file"
	default:
		return string(actionType)
	}
}

func categoryFor(actionType domain.ActionType) string {
	if actionType == domain.ActionRunCommand {
		return domain.CategoryTerminalCommands
	}
	return domain.CategoryFileOperations
}

func denialError(decision domain.Decision) error {
	if decision.Reason == domain.ReasonTimeout {
		return domain.ErrApprovalTimeout
	}
	return domain.ErrApprovalDenied
}
