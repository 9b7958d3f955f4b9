package domain

// ActionType enumerates the operations the extractor can propose.
type ActionType string

const (
	ActionCreateFile  ActionType = "create_file"
	ActionModifyFile  ActionType = "modify_file"
	ActionRunCommand  ActionType = "run_command"
	ActionOpenFile    ActionType = "open_file"
	ActionAnalyzeFile ActionType = "analyze_file"
)

// LineRange bounds a file modification to a contiguous region.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// ParsedAction is a typed, confidence-scored candidate operation extracted
// from assistant text. Instances are immutable once emitted.
type ParsedAction struct {
	Type       ActionType `json:"type"`
	FilePath   string     `json:"file_path,omitempty"`
	Content    string     `json:"content,omitempty"`
	Command    string     `json:"command,omitempty"`
	LineRange  *LineRange `json:"line_range,omitempty"`
	Confidence float64    `json:"confidence"`
}

// Target returns the path or command the action operates on.
func (a ParsedAction) Target() string {
	if a.Type == ActionRunCommand {
		return a.Command
	}
	return a.FilePath
}

// ParseResult aggregates the actions extracted from one assistant response.
// HasActionableContent is true only when at least one action survived both
// validation and the confidence threshold.
type ParseResult struct {
	Actions              []ParsedAction `json:"actions"`
	HasActionableContent bool           `json:"has_actionable_content"`
	Summary              string         `json:"summary"`
}
