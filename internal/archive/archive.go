// Package archive persists aggregated reports to a local sqlite
// database so past runs can be listed and replayed.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/averin/quorum/internal/aggregate"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when a run id prefix matches more than
// one stored run.
var ErrAmbiguousRun = errors.New("ambiguous run id")

// Archive stores one row per completed run. Reports are kept verbatim
// as JSON next to the queryable summary columns.
type Archive struct {
	db   *sql.DB
	path string
}

// Open creates or opens the run database under dataDir.
func Open(dataDir string) (*Archive, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "quorum.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &Archive{db: db, path: dbPath}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		prompt TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		fastest TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Path returns the database file location.
func (a *Archive) Path() string {
	return a.path
}

// RunSummary is one row of "quorum history".
type RunSummary struct {
	ID        string
	Kind      string
	Prompt    string
	CreatedAt time.Time
	Succeeded int
	Failed    int
	Fastest   string
}

// Save persists a report and returns its generated run id.
func (a *Archive) Save(ctx context.Context, rep aggregate.Report) (string, error) {
	payload, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	id := uuid.NewString()
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, prompt, created_at, succeeded, failed, fastest, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, rep.Kind, rep.Prompt, rep.CreatedAt.UTC(), rep.Summary.Succeeded, rep.Summary.Failed, rep.Summary.FastestID, payload)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first.
func (a *Archive) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, kind, prompt, created_at, succeeded, failed, COALESCE(fastest, '')
		FROM runs ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Kind, &r.Prompt, &r.CreatedAt, &r.Succeeded, &r.Failed, &r.Fastest); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get loads a stored report by its run id. A unique id prefix is
// accepted, matching the short ids history prints; a prefix matching
// several runs is ErrAmbiguousRun rather than a silent pick.
func (a *Archive) Get(ctx context.Context, id string) (aggregate.Report, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, report_json FROM runs WHERE id LIKE ? || '%' LIMIT 2
	`, id)
	if err != nil {
		return aggregate.Report{}, fmt.Errorf("load run: %w", err)
	}
	defer rows.Close()

	var (
		matches int
		payload []byte
	)
	for rows.Next() {
		var rowID string
		var rowPayload []byte
		if err := rows.Scan(&rowID, &rowPayload); err != nil {
			return aggregate.Report{}, fmt.Errorf("scan run: %w", err)
		}
		if rowID == id {
			matches = 1
			payload = rowPayload
			break
		}
		matches++
		payload = rowPayload
	}
	if err := rows.Err(); err != nil {
		return aggregate.Report{}, fmt.Errorf("load run: %w", err)
	}

	switch matches {
	case 0:
		return aggregate.Report{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
	default:
		return aggregate.Report{}, fmt.Errorf("%w: %s matches multiple runs", ErrAmbiguousRun, id)
	}

	var rep aggregate.Report
	if err := json.Unmarshal(payload, &rep); err != nil {
		return aggregate.Report{}, fmt.Errorf("decode run %s: %w", id, err)
	}
	return rep, nil
}
