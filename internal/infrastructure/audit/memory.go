// Package audit provides append-only sinks for terminal pipeline outcomes.
package audit

import (
	"sync"
	"time"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// MemorySink is the default in-process sink. Entries are copied on append so
// callers cannot mutate them afterwards.
type MemorySink struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

// NewMemorySink builds an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append implements ports.AuditSink.
func (s *MemorySink) Append(entry domain.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Details = copyDetails(entry.Details)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Entries implements ports.AuditSink, returning a snapshot copy.
func (s *MemorySink) Entries() ([]domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditEntry, len(s.entries))
	for i, entry := range s.entries {
		entry.Details = copyDetails(entry.Details)
		out[i] = entry
	}
	return out, nil
}

func copyDetails(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return nil
	}
	out := make(map[string]interface{}, len(details))
	for k, v := range details {
		out[k] = v
	}
	return out
}

var _ ports.AuditSink = (*MemorySink)(nil)
