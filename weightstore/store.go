package weightstore

import (
	"database/sql"
	"fmt"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/domino14/tetro/equity"
)

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	generation INTEGER NOT NULL,
	best_lines INTEGER NOT NULL,
	mean REAL NOT NULL,
	weights TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS generations_best ON generations(best_lines DESC);
`

// Store is the sqlite training log.
type Store struct {
	db *sql.DB
}

// Record is one logged generation.
type Record struct {
	Generation int
	BestLines  int
	Mean       float64
	Weights    *equity.Weights
	CreatedAt  string
}

// Open opens (creating if needed) a training log at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening training log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating training log schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordGeneration appends one generation's outcome and best weights.
func (s *Store) RecordGeneration(generation, bestLines int, mean float64,
	w *equity.Weights) error {

	blob, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshaling weights: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO generations (generation, best_lines, mean, weights) VALUES (?, ?, ?, ?)`,
		generation, bestLines, mean, string(blob))
	if err != nil {
		return fmt.Errorf("recording generation %d: %w", generation, err)
	}
	return nil
}

// Best returns the n highest scoring recorded generations, best first.
func (s *Store) Best(n int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT generation, best_lines, mean, weights, created_at
		 FROM generations ORDER BY best_lines DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying training log: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var blob string
		if err := rows.Scan(&rec.Generation, &rec.BestLines, &rec.Mean,
			&blob, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Weights = &equity.Weights{}
		if err := yaml.Unmarshal([]byte(blob), rec.Weights); err != nil {
			return nil, fmt.Errorf("parsing stored weights: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
