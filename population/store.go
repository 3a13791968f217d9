// Package population persists genomes in SQLite so evolution runs can be
// stopped, resumed and selected from across processes.
package population

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/schleplang/schlep/vm"
	"github.com/schleplang/schlep/wire"
)

// ErrNotFound indicates the requested genome doesn't exist.
var ErrNotFound = errors.New("genome not found")

// Store handles SQLite storage for a population of genomes.
type Store struct {
	db  *sql.DB
	set *vm.InstructionSet
	mu  sync.Mutex
}

// Open opens (creating if needed) a population database. Stored genomes
// are decoded against the given instruction set on the way out.
func Open(path string, set *vm.InstructionSet) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS genomes (
		id TEXT PRIMARY KEY,
		parents JSON NOT NULL,
		genome BLOB NOT NULL,
		fitness REAL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, set: set}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put persists a program, replacing any previous genome with the same id.
func (s *Store) Put(p *vm.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := wire.MarshalProgram(p)
	if err != nil {
		return fmt.Errorf("encoding genome: %w", err)
	}
	parents, err := json.Marshal(p.Parents)
	if err != nil {
		return fmt.Errorf("encoding parents: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO genomes (id, parents, genome, fitness, created_at)
		 VALUES (?, json(?), ?, ?, ?)`,
		p.ID, string(parents), blob, p.Fitness, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving genome: %w", err)
	}
	return nil
}

// Get retrieves a program by id.
func (s *Store) Get(id string) (*vm.Program, error) {
	var blob []byte
	err := s.db.QueryRow("SELECT genome FROM genomes WHERE id = ?", id).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying genome: %w", err)
	}
	return wire.UnmarshalProgram(blob, s.set)
}

// SetFitness records a fitness score for a stored genome.
func (s *Store) SetFitness(id string, fitness float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE genomes SET fitness = ? WHERE id = ?", fitness, id)
	if err != nil {
		return fmt.Errorf("updating fitness: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating fitness: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Fittest returns up to n programs in descending fitness order. Genomes
// with no recorded fitness sort last.
func (s *Store) Fittest(n int) ([]*vm.Program, error) {
	rows, err := s.db.Query(
		"SELECT genome FROM genomes ORDER BY fitness DESC NULLS LAST LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("querying genomes: %w", err)
	}
	defer rows.Close()

	var out []*vm.Program
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scanning genome: %w", err)
		}
		p, err := wire.UnmarshalProgram(blob, s.set)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of stored genomes.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM genomes").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting genomes: %w", err)
	}
	return n, nil
}

// Delete removes a genome. Deleting an absent id is not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM genomes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting genome: %w", err)
	}
	return nil
}
