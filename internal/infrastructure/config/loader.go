// Package config loads the security policy document.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aegis-go/assets"
	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/pkg/filesystem"
	"github.com/doeshing/aegis-go/internal/ports"
)

// FileLoader loads the YAML policy from ~/.aegis/policy.yaml (overridable via
// AEGIS_POLICY). A missing file is seeded from the embedded defaults.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.PolicyProvider.
func (l *FileLoader) Load(context.Context) (domain.Policy, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Policy{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultPolicyYAML, domain.SecureFilePermissions); err != nil {
				return domain.Policy{}, err
			}
			data = assets.DefaultPolicyYAML
		} else {
			return domain.Policy{}, err
		}
	}

	var policy domain.Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return domain.Policy{}, err
	}
	return hydrateDefaults(policy), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("AEGIS_POLICY"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".aegis", "policy.yaml")
}

// hydrateDefaults fills zero values so a sparse policy file still produces a
// complete pipeline configuration.
func hydrateDefaults(policy domain.Policy) domain.Policy {
	if policy.PolicyFormatVersion == "" {
		policy.PolicyFormatVersion = "1"
	}
	if policy.Extraction.MinConfidence <= 0 || policy.Extraction.MinConfidence > 1 {
		policy.Extraction.MinConfidence = domain.DefaultMinConfidence
	}
	if policy.Validation.MaxPathLength <= 0 {
		policy.Validation.MaxPathLength = domain.DefaultMaxPathLength
	}
	if policy.Validation.MaxCommandLength <= 0 {
		policy.Validation.MaxCommandLength = domain.DefaultMaxCommandLength
	}
	if policy.Approval.TimeoutSeconds <= 0 {
		policy.Approval.TimeoutSeconds = int(domain.DefaultApprovalTimeout.Seconds())
	}
	if policy.Audit.Backend == "" {
		policy.Audit.Backend = "memory"
	}
	return policy
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}

var _ ports.PolicyProvider = (*FileLoader)(nil)
