// Package sqlite provides a SQLite-backed append-only event journal.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
	"github.com/PinoyQ8/trust-bazaar/internal/host/events"
	"github.com/PinoyQ8/trust-bazaar/internal/host/events/sqlite/migrations"
	"github.com/PinoyQ8/trust-bazaar/internal/platform/storage/sqlitemigrate"
)

// Journal persists published events in SQLite, append-only.
type Journal struct {
	sqlDB *sql.DB
}

// Open opens a SQLite event journal and applies embedded migrations.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Journal{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (j *Journal) Close() error {
	if j == nil || j.sqlDB == nil {
		return nil
	}
	return j.sqlDB.Close()
}

// Publish appends one event to the journal. A missing ID is assigned here so
// callers can stay oblivious to journal bookkeeping.
func (j *Journal) Publish(ctx context.Context, evt events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j == nil || j.sqlDB == nil {
		return fmt.Errorf("journal is not configured")
	}
	if strings.TrimSpace(evt.Topic) == "" {
		return fmt.Errorf("event topic is required")
	}
	id := strings.TrimSpace(evt.ID)
	if id == "" {
		id = uuid.NewString()
	}

	principals, err := json.Marshal(evt.Principals)
	if err != nil {
		return fmt.Errorf("encode principals: %w", err)
	}
	payload := evt.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	encodedPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	_, err = j.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (id, topic, principals, payload, at)
		 VALUES (?, ?, ?, ?, ?)`,
		id,
		evt.Topic,
		string(principals),
		string(encodedPayload),
		int64(evt.At),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// List returns up to limit events with seq greater than afterSeq, oldest
// first, along with the sequence number of the last returned event.
func (j *Journal) List(ctx context.Context, afterSeq uint64, limit int) ([]events.Event, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if j == nil || j.sqlDB == nil {
		return nil, 0, fmt.Errorf("journal is not configured")
	}
	if limit <= 0 {
		return nil, 0, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := j.sqlDB.QueryContext(
		ctx,
		`SELECT seq, id, topic, principals, payload, at
		 FROM events
		 WHERE seq > ?
		 ORDER BY seq ASC
		 LIMIT ?`,
		int64(afterSeq),
		limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var (
		result  []events.Event
		lastSeq uint64
	)
	for rows.Next() {
		var (
			seq        int64
			evt        events.Event
			principals string
			payload    string
			at         int64
		)
		if err := rows.Scan(&seq, &evt.ID, &evt.Topic, &principals, &payload, &at); err != nil {
			return nil, 0, fmt.Errorf("list events: %w", err)
		}
		var decoded []host.Principal
		if err := json.Unmarshal([]byte(principals), &decoded); err != nil {
			return nil, 0, fmt.Errorf("decode principals: %w", err)
		}
		evt.Principals = decoded
		if err := json.Unmarshal([]byte(payload), &evt.Payload); err != nil {
			return nil, 0, fmt.Errorf("decode payload: %w", err)
		}
		evt.At = uint64(at)
		result = append(result, evt)
		lastSeq = uint64(seq)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return result, lastSeq, nil
}

var _ events.Publisher = (*Journal)(nil)
