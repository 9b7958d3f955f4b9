package assets

import (
	_ "embed"
)

// DefaultPolicyYAML contains the embedded default security policy.
//
//go:embed defaults/policy.yaml
var DefaultPolicyYAML []byte
