package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/ctmcfit/matrix"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// newID returns a ULID; ids from one store sort in creation order.
func (s *SQLiteStore) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		created_at  TEXT NOT NULL,
		policy      TEXT NOT NULL,
		numstates   INTEGER NOT NULL,
		toltime     REAL NOT NULL,
		transintv   REAL NOT NULL,
		labels      TEXT,
		genmat      TEXT NOT NULL,
		transmat    TEXT NOT NULL,
		transcount  TEXT NOT NULL,
		statetime   TEXT NOT NULL,
		warnings    TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, r *Run) error {
	if r == nil || r.GenMat == nil || r.TransMat == nil {
		return fmt.Errorf("save run: %w", matrix.ErrNilMatrix)
	}

	now := time.Now().UTC()
	id := s.newID(now)

	var cols [6][]byte
	var err error
	for i, v := range []any{r.GenMat, r.TransMat, r.TransCount, r.StateTime, r.Labels, r.Warnings} {
		if cols[i], err = json.Marshal(v); err != nil {
			return fmt.Errorf("encode run: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, policy, numstates, toltime, transintv,
		                   genmat, transmat, transcount, statetime, labels, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, now.Format(time.RFC3339Nano), r.Policy, r.NumStates, r.TolTime, r.TransIntv,
		string(cols[0]), string(cols[1]), string(cols[2]), string(cols[3]),
		nullJSON(r.Labels == nil, cols[4]), nullJSON(len(r.Warnings) == 0, cols[5]),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	r.ID = id
	r.CreatedAt = now
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	query := selectRun + ` ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectRun = `SELECT id, created_at, policy, numstates, toltime, transintv,
	genmat, transmat, transcount, statetime, labels, warnings FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var createdAt, genmat, transmat, transcount, statetime string
	var labels, warnings sql.NullString

	err := row.Scan(
		&r.ID, &createdAt, &r.Policy, &r.NumStates, &r.TolTime, &r.TransIntv,
		&genmat, &transmat, &transcount, &statetime, &labels, &warnings,
	)
	if err != nil {
		return r, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	r.GenMat = new(matrix.Dense)
	r.TransMat = new(matrix.Dense)
	if err := json.Unmarshal([]byte(genmat), r.GenMat); err != nil {
		return r, fmt.Errorf("decode genmat of run %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(transmat), r.TransMat); err != nil {
		return r, fmt.Errorf("decode transmat of run %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(transcount), &r.TransCount); err != nil {
		return r, fmt.Errorf("decode transcount of run %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(statetime), &r.StateTime); err != nil {
		return r, fmt.Errorf("decode statetime of run %s: %w", r.ID, err)
	}
	if labels.Valid {
		json.Unmarshal([]byte(labels.String), &r.Labels)
	}
	if warnings.Valid {
		json.Unmarshal([]byte(warnings.String), &r.Warnings)
	}
	return r, nil
}

// nullJSON stores empty optional columns as NULL.
func nullJSON(empty bool, b []byte) sql.NullString {
	if empty {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
