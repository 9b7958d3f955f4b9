package app

import (
	"context"
	"time"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/infrastructure/allowlist"
	"github.com/doeshing/aegis-go/internal/infrastructure/approval"
	"github.com/doeshing/aegis-go/internal/infrastructure/audit"
	"github.com/doeshing/aegis-go/internal/infrastructure/config"
	"github.com/doeshing/aegis-go/internal/infrastructure/executor"
	"github.com/doeshing/aegis-go/internal/infrastructure/extract"
	"github.com/doeshing/aegis-go/internal/infrastructure/ratelimit"
	"github.com/doeshing/aegis-go/internal/infrastructure/security"
	"github.com/doeshing/aegis-go/internal/pkg/logger"
	"github.com/doeshing/aegis-go/internal/ports"
	"github.com/doeshing/aegis-go/internal/services"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Orchestrator   *services.ActionOrchestrator
	Coordinator    *approval.Coordinator
	Extractor      *extract.Extractor
	PolicyProvider ports.PolicyProvider
	Policy         domain.Policy
	Audit          ports.AuditSink
	AllowList      ports.AllowList
	Logger         *logger.ZapLogger
}

// BuildContainer constructs the dependency graph from the effective policy.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	policyLoader := config.NewFileLoader("")
	policy, err := policyLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewZap(verbose)

	validator := extract.NewValidator(policy.Validation)
	extractor := extract.New(validator, policy.Extraction.MinConfidence)

	classifier, err := security.NewClassifier(policy.Rules)
	if err != nil {
		return nil, err
	}

	var sink ports.AuditSink
	if policy.Audit.Backend == "sqlite" {
		sink = audit.NewSQLiteSink(policy.Audit.Path)
	} else {
		sink = audit.NewMemorySink()
	}

	allowList := allowlist.NewFileStore("")
	coordinator := approval.New(
		time.Duration(policy.Approval.TimeoutSeconds)*time.Second,
		nil, // presenter attached by the host UI before first use
		allowList,
		log,
	)

	orchestrator := &services.ActionOrchestrator{
		Extractor:  extractor,
		Validator:  validator,
		Security:   classifier,
		RateLimits: ratelimit.New(policy.RateLimits),
		Approvals:  coordinator,
		AllowList:  allowList,
		Executor:   executor.NewLocal("", ""),
		Audit:      sink,
		Logger:     log,
		GateMedium: policy.Approval.GateMedium,
	}

	return &Container{
		Orchestrator:   orchestrator,
		Coordinator:    coordinator,
		Extractor:      extractor,
		PolicyProvider: policyLoader,
		Policy:         policy,
		Audit:          sink,
		AllowList:      allowList,
		Logger:         log,
	}, nil
}
