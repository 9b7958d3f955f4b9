package approval

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/infrastructure/allowlist"
	"github.com/doeshing/aegis-go/internal/pkg/logger"
)

type recordingPresenter struct {
	mu     sync.Mutex
	shown  []domain.ApprovalRequest
	hidden []string
}

func (p *recordingPresenter) ShowPrompt(request domain.ApprovalRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, request)
}

func (p *recordingPresenter) HidePrompt(promptID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden = append(p.hidden, promptID)
}

func (p *recordingPresenter) hiddenIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.hidden...)
}

func TestResolveApprovalFulfillsDecision(t *testing.T) {
	presenter := &recordingPresenter{}
	coordinator := New(time.Minute, presenter, nil, logger.NewNop())

	id, decisions := coordinator.RequestApproval("run_command", "npm test", "contains \"install\"", domain.RiskMedium)
	require.NotEmpty(t, id)
	require.Equal(t, 1, coordinator.PendingCount())
	require.Len(t, presenter.shown, 1)
	assert.Equal(t, id, presenter.shown[0].ID)

	coordinator.ResolveApproval(id, true, false)

	select {
	case decision := <-decisions:
		assert.True(t, decision.Approved)
		assert.Equal(t, domain.ReasonApproved, decision.Reason)
	case <-time.After(time.Second):
		t.Fatal("decision never arrived")
	}
	assert.Equal(t, 0, coordinator.PendingCount())
	assert.Equal(t, []string{id}, presenter.hiddenIDs())
}

func TestResolveApprovalTwiceIsNoOp(t *testing.T) {
	presenter := &recordingPresenter{}
	coordinator := New(time.Minute, presenter, nil, logger.NewNop())

	id, decisions := coordinator.RequestApproval("run_command", "npm test", "", domain.RiskHigh)

	coordinator.ResolveApproval(id, false, false)
	coordinator.ResolveApproval(id, true, false) // must not throw or re-fulfill

	decision := <-decisions
	assert.False(t, decision.Approved)
	assert.Equal(t, domain.ReasonDeclined, decision.Reason)

	// Channel was closed after the single send; a second receive yields the
	// zero value instead of another decision.
	again, open := <-decisions
	assert.False(t, open)
	assert.False(t, again.Approved)

	assert.Equal(t, []string{id}, presenter.hiddenIDs())
}

func TestResolveApprovalUnknownIDIsNoOp(t *testing.T) {
	coordinator := New(time.Minute, &recordingPresenter{}, nil, logger.NewNop())
	coordinator.ResolveApproval("nope", true, false)
	assert.Equal(t, 0, coordinator.PendingCount())
}

func TestTimeoutResolvesAsDenied(t *testing.T) {
	presenter := &recordingPresenter{}
	coordinator := New(30*time.Millisecond, presenter, nil, logger.NewNop())

	id, decisions := coordinator.RequestApproval("run_command", "rm -rf build", "recursive or forced delete", domain.RiskHigh)

	select {
	case decision := <-decisions:
		assert.False(t, decision.Approved)
		assert.Equal(t, domain.ReasonTimeout, decision.Reason)
	case <-time.After(time.Second):
		t.Fatal("timeout never fired")
	}
	assert.Equal(t, 0, coordinator.PendingCount())
	assert.Equal(t, []string{id}, presenter.hiddenIDs())

	// A late resolution after the timeout is a no-op.
	coordinator.ResolveApproval(id, true, false)
	assert.Equal(t, 0, coordinator.PendingCount())
}

func TestPendingRequestsResolveIndependently(t *testing.T) {
	coordinator := New(time.Minute, &recordingPresenter{}, nil, logger.NewNop())

	idA, decisionsA := coordinator.RequestApproval("run_command", "sudo ls", "", domain.RiskHigh)
	idB, decisionsB := coordinator.RequestApproval("create_file", "create file /etc/motd", "", domain.RiskHigh)
	require.NotEqual(t, idA, idB)
	require.Equal(t, 2, coordinator.PendingCount())

	coordinator.ResolveApproval(idA, true, false)
	decisionA := <-decisionsA
	assert.True(t, decisionA.Approved)

	// B is untouched by A's resolution.
	assert.Equal(t, 1, coordinator.PendingCount())
	select {
	case <-decisionsB:
		t.Fatal("request B resolved unexpectedly")
	case <-time.After(50 * time.Millisecond):
	}

	coordinator.ResolveApproval(idB, false, false)
	decisionB := <-decisionsB
	assert.False(t, decisionB.Approved)
}

func TestAlwaysAllowPersistsTarget(t *testing.T) {
	store := allowlist.NewMemoryStore()
	coordinator := New(time.Minute, &recordingPresenter{}, store, logger.NewNop())

	id, decisions := coordinator.RequestApproval("run_command", "sudo systemctl restart nginx", "", domain.RiskHigh)
	coordinator.ResolveApproval(id, true, true)

	decision := <-decisions
	require.True(t, decision.Approved)
	require.True(t, decision.AlwaysAllow)
	assert.True(t, store.IsAllowed("sudo systemctl restart nginx"))
}

func TestDeclinedAlwaysAllowDoesNotPersist(t *testing.T) {
	store := allowlist.NewMemoryStore()
	coordinator := New(time.Minute, &recordingPresenter{}, store, logger.NewNop())

	id, decisions := coordinator.RequestApproval("run_command", "sudo reboot", "", domain.RiskHigh)
	coordinator.ResolveApproval(id, false, true)

	<-decisions
	assert.False(t, store.IsAllowed("sudo reboot"))
}

func TestConcurrentResolutionAndTimeoutDecideOnce(t *testing.T) {
	coordinator := New(20*time.Millisecond, &recordingPresenter{}, nil, logger.NewNop())

	for i := 0; i < 20; i++ {
		id, decisions := coordinator.RequestApproval("run_command", "sudo true", "", domain.RiskHigh)

		go func() {
			time.Sleep(time.Duration(i) * time.Millisecond)
			coordinator.ResolveApproval(id, true, false)
		}()

		count := 0
		for range decisions {
			count++
		}
		require.Equal(t, 1, count, "exactly one decision per request")
	}
}
