package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Defaults applied when the policy file leaves a value unset.
const (
	// DefaultMinConfidence is the extraction confidence floor.
	DefaultMinConfidence = 0.7
	// DefaultMaxPathLength is the longest accepted file path.
	DefaultMaxPathLength = 260
	// DefaultMaxCommandLength is the longest accepted command.
	DefaultMaxCommandLength = 200
	// DefaultApprovalTimeout bounds how long a prompt stays pending.
	DefaultApprovalTimeout = 30 * time.Second
	// DefaultCommandTimeout is the default timeout for command execution.
	DefaultCommandTimeout = 2 * time.Second
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
