package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// SQLiteSink persists audit entries in a SQLite database. When the database
// cannot be opened it degrades to an in-memory sink rather than failing the
// pipeline.
type SQLiteSink struct {
	db       *sql.DB
	fallback *MemorySink
	mu       sync.Mutex
}

// NewSQLiteSink creates (or opens) the database at path; an empty path means
// ~/.aegis/audit/audit.db.
func NewSQLiteSink(path string) *SQLiteSink {
	if path == "" {
		path = filepath.Join(userHome(), ".aegis", "audit", "audit.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteSink{fallback: NewMemorySink()}
	}
	sink := &SQLiteSink{db: db}
	if err := sink.init(); err != nil {
		return &SQLiteSink{fallback: NewMemorySink()}
	}
	return sink
}

func (s *SQLiteSink) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS audit_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT,
		timestamp TEXT,
		approved INTEGER,
		details TEXT
	);`)
	return err
}

// Append implements ports.AuditSink.
func (s *SQLiteSink) Append(entry domain.AuditEntry) error {
	if s.fallback != nil {
		return s.fallback.Append(entry)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		details = []byte("{}")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT INTO audit_entries (type, timestamp, approved, details) VALUES (?, ?, ?, ?)`,
		entry.Type,
		entry.Timestamp.Format(domain.TimestampFormat),
		boolToInt(entry.Approved),
		string(details),
	)
	return err
}

// Entries implements ports.AuditSink.
func (s *SQLiteSink) Entries() ([]domain.AuditEntry, error) {
	if s.fallback != nil {
		return s.fallback.Entries()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT type, timestamp, approved, details FROM audit_entries ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			entry    domain.AuditEntry
			ts       string
			approved int
			details  string
		)
		if err := rows.Scan(&entry.Type, &ts, &approved, &details); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			entry.Timestamp = parsed
		}
		entry.Approved = approved != 0
		if details != "" {
			_ = json.Unmarshal([]byte(details), &entry.Details)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.AuditSink = (*SQLiteSink)(nil)
