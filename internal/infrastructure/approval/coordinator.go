// Package approval manages outstanding human-approval requests. Each request
// is keyed by a fresh correlation ID and owns its timeout timer; resolution
// and expiry race, and whichever wins decides the request exactly once.
package approval

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

type pendingRequest struct {
	request  domain.ApprovalRequest
	decision chan domain.Decision
	timer    *time.Timer
}

// Coordinator implements the ApprovalService port. Unrelated requests are
// never serialized against each other; the mutex only guards the table.
type Coordinator struct {
	timeout   time.Duration
	presenter ports.ApprovalPresenter
	allowList ports.AllowList
	logger    ports.Logger

	mu      sync.Mutex
	pending map[string]*pendingRequest
}

// New builds a coordinator. A non-positive timeout falls back to the default
// 30 seconds. The presenter receives the outward prompt/hide events; the
// allow list records approved always-allow decisions.
func New(timeout time.Duration, presenter ports.ApprovalPresenter, allowList ports.AllowList, logger ports.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = domain.DefaultApprovalTimeout
	}
	return &Coordinator{
		timeout:   timeout,
		presenter: presenter,
		allowList: allowList,
		logger:    logger,
		pending:   make(map[string]*pendingRequest),
	}
}

// SetPresenter attaches the UI boundary. Must be called before the first
// request.
func (c *Coordinator) SetPresenter(presenter ports.ApprovalPresenter) {
	c.mu.Lock()
	c.presenter = presenter
	c.mu.Unlock()
}

// RequestApproval implements ports.ApprovalService. It returns immediately;
// the decision arrives on the returned channel exactly once.
func (c *Coordinator) RequestApproval(operation, target, details string, risk domain.RiskLevel) (string, <-chan domain.Decision) {
	id := uuid.NewString()
	request := domain.ApprovalRequest{
		ID:        id,
		Operation: operation,
		Target:    target,
		Details:   details,
		RiskLevel: risk,
		CreatedAt: time.Now(),
	}
	entry := &pendingRequest{
		request:  request,
		decision: make(chan domain.Decision, 1),
	}

	c.mu.Lock()
	c.pending[id] = entry
	entry.timer = time.AfterFunc(c.timeout, func() { c.expire(id) })
	c.mu.Unlock()

	if c.presenter != nil {
		c.presenter.ShowPrompt(request)
	}
	return id, entry.decision
}

// ResolveApproval implements ports.ApprovalService. An unknown, already
// resolved, or timed-out prompt ID logs a warning and is a no-op.
func (c *Coordinator) ResolveApproval(promptID string, approved, alwaysAllow bool) {
	c.mu.Lock()
	entry, ok := c.pending[promptID]
	if !ok {
		c.mu.Unlock()
		c.warn("approval resolution for unknown prompt", promptID)
		return
	}
	delete(c.pending, promptID)
	c.mu.Unlock()

	entry.timer.Stop()

	reason := domain.ReasonDeclined
	if approved {
		reason = domain.ReasonApproved
		if alwaysAllow && c.allowList != nil {
			if err := c.allowList.Allow(entry.request.Target); err != nil {
				c.warn("allow-list persist failed", promptID)
			}
		}
	}

	entry.decision <- domain.Decision{Approved: approved, AlwaysAllow: alwaysAllow, Reason: reason}
	close(entry.decision)
	c.hide(promptID)
}

// expire is the timer path: a timeout is a denial distinguishable only by
// its reason.
func (c *Coordinator) expire(promptID string) {
	c.mu.Lock()
	entry, ok := c.pending[promptID]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.pending, promptID)
	c.mu.Unlock()

	entry.decision <- domain.Decision{Approved: false, Reason: domain.ReasonTimeout}
	close(entry.decision)
	c.hide(promptID)

	if c.logger != nil {
		c.logger.Info("approval timed out", map[string]interface{}{"prompt_id": promptID})
	}
}

// PendingCount reports the number of live requests.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Coordinator) hide(promptID string) {
	if c.presenter != nil {
		c.presenter.HidePrompt(promptID)
	}
}

func (c *Coordinator) warn(msg, promptID string) {
	if c.logger != nil {
		c.logger.Warn(msg, map[string]interface{}{"prompt_id": promptID})
	}
}

var _ ports.ApprovalService = (*Coordinator)(nil)
