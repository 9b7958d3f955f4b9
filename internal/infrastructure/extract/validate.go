package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// pathShape is deliberately conservative: dot-or-word segments separated by
// slashes, optional ./, ../ or ~/ prefix. Anything fancier is rejected.
var pathShape = regexp.MustCompile(`^(?:~/|\.{1,2}/)?[\w.-]+(?:/[\w.-]+)*$`)

// Validator drops malformed paths and blacklisted commands before they reach
// classification. Rejections are silent; candidates simply disappear.
type Validator struct {
	maxPathLength    int
	maxCommandLength int
	forbiddenChars   string
	blacklist        []string
}

// NewValidator builds a validator from policy limits. Zero limits hydrate to
// defaults; an empty blacklist falls back to the built-in one.
func NewValidator(limits domain.ValidationLimits) *Validator {
	blacklist := limits.DangerousCommands
	if limits.MaxPathLength <= 0 {
		limits.MaxPathLength = domain.DefaultMaxPathLength
	}
	if limits.MaxCommandLength <= 0 {
		limits.MaxCommandLength = domain.DefaultMaxCommandLength
	}
	if limits.ForbiddenPathChars == "" {
		limits.ForbiddenPathChars = `<>|*?"`
	}
	if len(blacklist) == 0 {
		blacklist = defaultBlacklist()
	}
	lowered := make([]string, len(blacklist))
	for i, entry := range blacklist {
		lowered[i] = strings.ToLower(entry)
	}
	return &Validator{
		maxPathLength:    limits.MaxPathLength,
		maxCommandLength: limits.MaxCommandLength,
		forbiddenChars:   limits.ForbiddenPathChars,
		blacklist:        lowered,
	}
}

// ValidatePath implements ports.ActionValidator.
func (v *Validator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", domain.ErrValidation)
	}
	if len(path) > v.maxPathLength {
		return fmt.Errorf("%w: path exceeds %d characters", domain.ErrValidation, v.maxPathLength)
	}
	if strings.ContainsAny(path, v.forbiddenChars) {
		return fmt.Errorf("%w: path contains forbidden characters", domain.ErrValidation)
	}
	if hasControlChars(path) {
		return fmt.Errorf("%w: path contains control characters", domain.ErrValidation)
	}
	if !pathShape.MatchString(path) {
		return fmt.Errorf("%w: path shape rejected", domain.ErrValidation)
	}
	return nil
}

// ValidateCommand implements ports.ActionValidator.
func (v *Validator) ValidateCommand(command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("%w: empty command", domain.ErrValidation)
	}
	if len(command) > v.maxCommandLength {
		return fmt.Errorf("%w: command exceeds %d characters", domain.ErrValidation, v.maxCommandLength)
	}
	if hasControlChars(command) {
		return fmt.Errorf("%w: command contains control characters", domain.ErrValidation)
	}
	lowered := strings.ToLower(command)
	for _, banned := range v.blacklist {
		if strings.Contains(lowered, banned) {
			return fmt.Errorf("%w: command matches blacklist entry %q", domain.ErrValidation, banned)
		}
	}
	return nil
}

// ValidateAction routes to the path or command check by action type.
func (v *Validator) ValidateAction(action domain.ParsedAction) error {
	if action.Type == domain.ActionRunCommand {
		return v.ValidateCommand(action.Command)
	}
	return v.ValidatePath(action.FilePath)
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

func defaultBlacklist() []string {
	return []string{
		"rm -rf",
		"rm -fr",
		"mkfs",
		"dd if=",
		"shutdown",
		"reboot",
		"format",
		"sudo",
		"chmod 777",
		"> /dev/sd",
		":(){",
		"del /f",
	}
}

var _ ports.ActionValidator = (*Validator)(nil)
