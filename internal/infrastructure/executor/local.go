// Package executor provides the local ActionExecutor adapter. The pipeline
// treats executors as external collaborators; this one performs the side
// effects against the host filesystem and shell.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// Local runs approved actions on the host.
type Local struct {
	shell string
	root  string
}

// NewLocal builds an executor. Shell defaults to $SHELL then /bin/sh; root
// anchors relative file paths and defaults to the working directory.
func NewLocal(shell, root string) *Local {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	if root == "" {
		root = "."
	}
	return &Local{shell: shell, root: root}
}

// CreateFile implements ports.ActionExecutor.
func (e *Local) CreateFile(_ context.Context, path, content string) error {
	full := e.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0o644)
}

// ModifyFile implements ports.ActionExecutor. Without a line range the whole
// file is replaced; with one, lines start..end (1-based, inclusive) are
// swapped for the new content.
func (e *Local) ModifyFile(_ context.Context, path, content string, lineRange *domain.LineRange) error {
	full := e.resolve(path)
	if lineRange == nil {
		return os.WriteFile(full, []byte(content), 0o644)
	}

	raw, err := os.ReadFile(full)
	if err != nil {
		return err
	}
	lines := strings.Split(string(raw), "\n")
	start, end := lineRange.Start, lineRange.End
	if start < 1 || end < start || start > len(lines) {
		return fmt.Errorf("line range %d-%d out of bounds for %d lines", start, end, len(lines))
	}
	if end > len(lines) {
		end = len(lines)
	}

	var out []string
	out = append(out, lines[:start-1]...)
	out = append(out, strings.Split(content, "\n")...)
	out = append(out, lines[end:]...)
	return os.WriteFile(full, []byte(strings.Join(out, "\n")), 0o644)
}

// RunCommand implements ports.ActionExecutor.
func (e *Local) RunCommand(ctx context.Context, command string) (domain.ExecutionResult, error) {
	c := exec.CommandContext(ctx, e.shell, "-c", command)
	c.Dir = e.root
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	duration := time.Since(start).Milliseconds()

	result := domain.ExecutionResult{
		Ran:        err == nil,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: duration,
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
	}
	result.Err = err
	return result, err
}

// OpenFile implements ports.ActionExecutor. Headless hosts have nothing to
// open with, so this only verifies the target exists.
func (e *Local) OpenFile(_ context.Context, path string) error {
	_, err := os.Stat(e.resolve(path))
	return err
}

// AnalyzeFile implements ports.ActionExecutor by verifying the target is
// readable; real analysis belongs to the host application.
func (e *Local) AnalyzeFile(_ context.Context, path string) error {
	_, err := os.ReadFile(e.resolve(path))
	return err
}

func (e *Local) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.root, path)
}

var _ ports.ActionExecutor = (*Local)(nil)
