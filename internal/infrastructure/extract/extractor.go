// Package extract converts free-form assistant text into typed, scored
// candidate actions. Matching is literal: an ordered trigger-phrase table for
// prose plus independent inspection of fenced code blocks. Anything the
// matcher cannot shape into a valid candidate is silently skipped.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// Base confidences per trigger source.
const (
	createConfidence      = 0.90
	modifyConfidence      = 0.80
	runConfidence         = 0.85
	openConfidence        = 0.85
	analyzeConfidence     = 0.80
	fenceCommandConf      = 0.75
	fenceSelfCreationConf = 0.80
)

// trigger binds a phrase to an action type and base confidence.
type trigger struct {
	phrase     string
	actionType domain.ActionType
	confidence float64
}

// triggerTable is scanned in order; the first phrase found in a line wins.
var triggerTable = []trigger{
	{"i'll create", domain.ActionCreateFile, createConfidence},
	{"let me create", domain.ActionCreateFile, createConfidence},
	{"creating", domain.ActionCreateFile, createConfidence},
	{"i'll modify", domain.ActionModifyFile, modifyConfidence},
	{"let me modify", domain.ActionModifyFile, modifyConfidence},
	{"i'll update", domain.ActionModifyFile, modifyConfidence},
	{"updating", domain.ActionModifyFile, modifyConfidence},
	{"i'll add", domain.ActionModifyFile, modifyConfidence},
	{"add to", domain.ActionModifyFile, modifyConfidence},
	{"i'll run", domain.ActionRunCommand, runConfidence},
	{"let me run", domain.ActionRunCommand, runConfidence},
	{"i'll execute", domain.ActionRunCommand, runConfidence},
	{"let me execute", domain.ActionRunCommand, runConfidence},
	{"i'll open", domain.ActionOpenFile, openConfidence},
	{"let me open", domain.ActionOpenFile, openConfidence},
	{"i'll analyze", domain.ActionAnalyzeFile, analyzeConfidence},
	{"let me analyze", domain.ActionAnalyzeFile, analyzeConfidence},
	{"analyzing", domain.ActionAnalyzeFile, analyzeConfidence},
}

// pathToken finds path-shaped tokens inside a sentence: slash-separated
// segments, or a lone file name with an extension.
var pathToken = regexp.MustCompile(`(?:~/|\.{1,2}/)?[\w.-]+(?:/[\w.-]+)+|[\w-]+\.[A-Za-z][A-Za-z0-9]*`)

var backtickSpan = regexp.MustCompile("`([^`\n]+)`")

var shellLangs = map[string]bool{
	"bash":  true,
	"sh":    true,
	"shell": true,
	"zsh":   true,
}

// Extractor implements the ports.Extractor port.
type Extractor struct {
	validator *Validator

	mu            sync.RWMutex
	minConfidence float64
}

// New builds an extractor. An out-of-range minConfidence falls back to the
// default threshold.
func New(validator *Validator, minConfidence float64) *Extractor {
	if minConfidence < 0 || minConfidence > 1 {
		minConfidence = domain.DefaultMinConfidence
	}
	return &Extractor{
		validator:     validator,
		minConfidence: minConfidence,
	}
}

// MinConfidence returns the current confidence floor.
func (e *Extractor) MinConfidence() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.minConfidence
}

// SetMinConfidence updates the floor. Out-of-range values are ignored and the
// previous value is retained.
func (e *Extractor) SetMinConfidence(value float64) {
	if value < 0 || value > 1 {
		return
	}
	e.mu.Lock()
	e.minConfidence = value
	e.mu.Unlock()
}

// Extract implements ports.Extractor. It never fails; malformed input yields
// an empty result.
func (e *Extractor) Extract(text string) domain.ParseResult {
	minConfidence := e.MinConfidence()

	candidates := e.scan(text)
	actions := make([]domain.ParsedAction, 0, len(candidates))
	for _, candidate := range candidates {
		if err := e.validator.ValidateAction(candidate); err != nil {
			continue
		}
		if candidate.Confidence < minConfidence {
			continue
		}
		actions = append(actions, candidate)
	}

	return domain.ParseResult{
		Actions:              actions,
		HasActionableContent: len(actions) > 0,
		Summary:              summarize(actions),
	}
}

// scan walks the text once, collecting candidates in source order. pending
// tracks the most recent create/modify trigger still waiting for a fence to
// supply its content.
func (e *Extractor) scan(text string) []domain.ParsedAction {
	lines := strings.Split(text, "\n")

	var candidates []domain.ParsedAction
	pending := -1
	prevLine := ""

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if isFenceDelimiter(trimmed) {
			lang := fenceLang(trimmed)
			var body []string
			for i++; i < len(lines); i++ {
				if isFenceDelimiter(strings.TrimSpace(lines[i])) {
					break
				}
				body = append(body, lines[i])
			}
			e.consumeFence(lang, body, prevLine, &candidates, &pending)
			prevLine = ""
			continue
		}

		e.scanLine(trimmed, &candidates, &pending)
		if trimmed != "" {
			prevLine = trimmed
		}
	}
	return candidates
}

// scanLine matches the trigger table against one prose line. A trigger with
// no extractable path or command produces no candidate.
func (e *Extractor) scanLine(line string, candidates *[]domain.ParsedAction, pending *int) {
	if line == "" {
		return
	}
	lower := strings.ToLower(line)
	for _, trig := range triggerTable {
		pos := strings.Index(lower, trig.phrase)
		if pos < 0 {
			continue
		}
		rest := line[pos+len(trig.phrase):]

		if trig.actionType == domain.ActionRunCommand {
			command := strings.TrimSpace(firstBacktickSpan(rest))
			if command == "" {
				return
			}
			*candidates = append(*candidates, domain.ParsedAction{
				Type:       domain.ActionRunCommand,
				Command:    command,
				Confidence: trig.confidence,
			})
			return
		}

		path := pathFromSentence(rest)
		if path == "" || e.validator.ValidatePath(path) != nil {
			return
		}
		*candidates = append(*candidates, domain.ParsedAction{
			Type:       trig.actionType,
			FilePath:   path,
			Confidence: trig.confidence,
		})
		if trig.actionType == domain.ActionCreateFile || trig.actionType == domain.ActionModifyFile {
			*pending = len(*candidates) - 1
		}
		return
	}
}

// consumeFence inspects one fenced block. Shell fences become one runCommand
// per non-empty line; other fences supply content to the pending file trigger
// or, given a path hint of their own, become a standalone file creation.
func (e *Extractor) consumeFence(lang string, body []string, prevLine string, candidates *[]domain.ParsedAction, pending *int) {
	if isShellFence(lang, body) {
		for _, raw := range body {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "$") {
				line = strings.TrimSpace(strings.TrimPrefix(line, "$"))
				if line == "" {
					continue
				}
			}
			*candidates = append(*candidates, domain.ParsedAction{
				Type:       domain.ActionRunCommand,
				Command:    line,
				Confidence: fenceCommandConf,
			})
		}
		return
	}

	hint, rest := leadingPathHint(body)
	if hint == "" {
		if p := barePath(prevLine); p != "" {
			hint, rest = p, body
		}
	}

	if *pending >= 0 {
		target := &(*candidates)[*pending]
		if hint == "" || hint == target.FilePath {
			target.Content = strings.Join(body, "\n")
			*pending = -1
			return
		}
	}

	if hint != "" && e.validator.ValidatePath(hint) == nil {
		*candidates = append(*candidates, domain.ParsedAction{
			Type:       domain.ActionCreateFile,
			FilePath:   hint,
			Content:    strings.Join(rest, "\n"),
			Confidence: fenceSelfCreationConf,
		})
	}
}

func isFenceDelimiter(line string) bool {
	return strings.HasPrefix(line, "```")
}

func fenceLang(delimiter string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(delimiter, "```")))
}

// isShellFence treats bash/sh language tags as shell, and untagged fences
// whose non-empty lines all carry a $ prompt prefix.
func isShellFence(lang string, body []string) bool {
	if shellLangs[lang] {
		return true
	}
	if lang != "" && lang != "console" && lang != "terminal" {
		return false
	}
	sawLine := false
	for _, raw := range body {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "$") {
			return false
		}
		sawLine = true
	}
	return sawLine
}

// leadingPathHint recognizes a comment naming a file path on the first
// non-empty fence line, returning the hint and the remaining lines.
func leadingPathHint(body []string) (string, []string) {
	for i, raw := range body {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, prefix := range []string{"//", "#", "--", "/*", "<!--"} {
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			hint := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			hint = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(hint, "-->")), "*/"))
			if p := barePath(hint); p != "" {
				rest := body[i+1:]
				for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
					rest = rest[1:]
				}
				return p, rest
			}
			return "", body
		}
		return "", body
	}
	return "", body
}

// barePath reports whether a fragment is a single path-shaped token, allowing
// backtick wrapping and a trailing colon.
func barePath(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	fragment = strings.Trim(fragment, "`")
	fragment = strings.TrimSuffix(fragment, ":")
	if fragment == "" || strings.ContainsAny(fragment, " \t") {
		return ""
	}
	if match := pathToken.FindString(fragment); match == fragment {
		return fragment
	}
	return ""
}

// pathFromSentence pulls the target path out of a trigger sentence. Backtick
// wrapped tokens are preferred over bare ones.
func pathFromSentence(rest string) string {
	for _, span := range backtickSpan.FindAllStringSubmatch(rest, -1) {
		if p := barePath(span[1]); p != "" {
			return p
		}
	}
	for _, match := range pathToken.FindAllString(rest, -1) {
		if p := trimPathPunct(match); p != "" {
			return p
		}
	}
	return ""
}

func trimPathPunct(token string) string {
	return strings.TrimRight(token, ".,;:!?")
}

func firstBacktickSpan(rest string) string {
	if span := backtickSpan.FindStringSubmatch(rest); span != nil {
		return span[1]
	}
	return ""
}

// summarize renders the pluralized per-type counts in order of first
// appearance, e.g. "Detected 1 file creation, 2 command executions".
func summarize(actions []domain.ParsedAction) string {
	if len(actions) == 0 {
		return "No actionable content detected"
	}
	var order []domain.ActionType
	counts := map[domain.ActionType]int{}
	for _, action := range actions {
		if counts[action.Type] == 0 {
			order = append(order, action.Type)
		}
		counts[action.Type]++
	}
	parts := make([]string, 0, len(order))
	for _, actionType := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[actionType], typeLabel(actionType, counts[actionType])))
	}
	return "Detected " + strings.Join(parts, ", ")
}

func typeLabel(actionType domain.ActionType, count int) string {
	singular := map[domain.ActionType]string{
		domain.ActionCreateFile:  "file creation",
		domain.ActionModifyFile:  "file modification",
		domain.ActionRunCommand:  "command execution",
		domain.ActionOpenFile:    "file open",
		domain.ActionAnalyzeFile: "file analysis",
	}[actionType]
	if count == 1 {
		return singular
	}
	if actionType == domain.ActionAnalyzeFile {
		return "file analyses"
	}
	return singular + "s"
}

var _ ports.Extractor = (*Extractor)(nil)
