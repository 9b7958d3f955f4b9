package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// decisionResolver is the slice of the approval service the presenter needs.
type decisionResolver interface {
	ResolveApproval(promptID string, approved, alwaysAllow bool)
}

// TerminalPresenter surfaces security prompts on the terminal and feeds the
// decision back to the coordinator. In non-interactive mode prompts are
// denied immediately instead of waiting out the timeout.
type TerminalPresenter struct {
	resolver    decisionResolver
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	mu          sync.Mutex
}

// NewTerminalPresenter constructs a presenter referencing stdio.
func NewTerminalPresenter(resolver decisionResolver, in io.Reader, out io.Writer, interactive bool) *TerminalPresenter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &TerminalPresenter{
		resolver:    resolver,
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// ShowPrompt implements ports.ApprovalPresenter. The read happens on its own
// goroutine so the coordinator's request path never blocks; the mutex keeps
// concurrent prompts from interleaving on one terminal.
func (p *TerminalPresenter) ShowPrompt(request domain.ApprovalRequest) {
	go func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		fmt.Fprintf(p.out, "\n[!] %s risk: %s\n", strings.ToUpper(string(request.RiskLevel)), request.Operation)
		fmt.Fprintf(p.out, "    Target: %s\n", request.Target)
		if request.Details != "" {
			fmt.Fprintf(p.out, "    Reason: %s\n", request.Details)
		}

		if !p.interactive {
			fmt.Fprintln(p.out, "    Denied (non-interactive mode).")
			p.resolver.ResolveApproval(request.ID, false, false)
			return
		}

		fmt.Fprint(p.out, "Approve? [y]es / [a]lways / [N]o: ")
		line, err := p.in.ReadString('\n')
		if err != nil {
			p.resolver.ResolveApproval(request.ID, false, false)
			return
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			p.resolver.ResolveApproval(request.ID, true, false)
		case "a", "always":
			p.resolver.ResolveApproval(request.ID, true, true)
		default:
			p.resolver.ResolveApproval(request.ID, false, false)
		}
	}()
}

// HidePrompt implements ports.ApprovalPresenter. The terminal has nothing to
// dismiss; a timed-out prompt simply reports itself.
func (p *TerminalPresenter) HidePrompt(promptID string) {}

var _ ports.ApprovalPresenter = (*TerminalPresenter)(nil)
