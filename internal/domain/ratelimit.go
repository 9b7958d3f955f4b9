package domain

// RateLimitResult is the outcome of one fixed-window check.
type RateLimitResult struct {
	Allowed           bool   `json:"allowed"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
	Reason            string `json:"reason,omitempty"`
}

// Rate-limit categories with independent windows.
const (
	CategoryChatMessages     = "chat_messages"
	CategoryAPICalls         = "api_calls"
	CategoryTerminalCommands = "terminal_commands"
	CategoryFileOperations   = "file_operations"
)
