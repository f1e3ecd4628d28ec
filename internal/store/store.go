// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists deduplicated concepts and relationships with
// frequency counters. The engine dispatches observations here without
// awaiting them; a store failure never fails the user-facing verdict.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ethos-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "ethos.db"
)

// Recorder is the write contract the engine depends on. Concepts upsert on
// the (name, entity_type) key with frequency += 1 per sighting;
// relationships upsert on (subject, predicate, object) accumulating
// strength.
type Recorder interface {
	RecordConcepts(ctx context.Context, concepts []types.Concept) error
	RecordRelationships(ctx context.Context, relationships []types.Relationship) error
}

// Store is the SQLite-backed Recorder. Safe for concurrent use; SQLite
// serializes writers via WAL.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the engine database at stateDir/index/ethos.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.StateDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS concepts (
			name TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			lemma TEXT,
			pos_tag TEXT,
			category TEXT,
			frequency INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (name, entity_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_concepts_frequency ON concepts(frequency)`,
		`CREATE TABLE IF NOT EXISTS relationships (
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			predicate_lemma TEXT,
			object TEXT NOT NULL,
			dependency_type TEXT,
			verb_tense TEXT,
			strength REAL NOT NULL DEFAULT 1.0,
			sightings INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (subject, predicate, object)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordConcepts upserts each concept, advancing its frequency counter by
// one on repeat sightings of the same (name, entity_type) key. All
// concepts of one call commit in a single transaction.
func (s *Store) RecordConcepts(ctx context.Context, concepts []types.Concept) error {
	if len(concepts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO concepts (name, entity_type, lemma, pos_tag, category, frequency)
		 VALUES (?, ?, ?, ?, ?, 1)
		 ON CONFLICT(name, entity_type) DO UPDATE SET
			frequency = frequency + 1,
			lemma = excluded.lemma,
			pos_tag = excluded.pos_tag,
			category = excluded.category`)
	if err != nil {
		return fmt.Errorf("preparing concept upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range concepts {
		if _, err := stmt.ExecContext(ctx, c.Name, c.EntityType, c.Lemma, c.POSTag, c.Category); err != nil {
			return fmt.Errorf("upserting concept %q: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

// RecordRelationships upserts each relationship, accumulating strength and
// counting sightings on repeat observations of the same
// (subject, predicate, object) triple.
func (s *Store) RecordRelationships(ctx context.Context, relationships []types.Relationship) error {
	if len(relationships) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO relationships
			(subject, predicate, predicate_lemma, object, dependency_type, verb_tense, strength, sightings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		 ON CONFLICT(subject, predicate, object) DO UPDATE SET
			strength = strength + excluded.strength,
			sightings = sightings + 1`)
	if err != nil {
		return fmt.Errorf("preparing relationship upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range relationships {
		strength := r.Strength
		if strength == 0 {
			strength = 1.0
		}
		if _, err := stmt.ExecContext(ctx,
			r.Subject, r.Predicate, r.PredicateLemma, r.Object,
			r.DependencyType, r.VerbTense, strength,
		); err != nil {
			return fmt.Errorf("upserting relationship %q-%q-%q: %w", r.Subject, r.Predicate, r.Object, err)
		}
	}
	return tx.Commit()
}

// ConceptRecord is a persisted concept row with its accumulated frequency.
type ConceptRecord struct {
	types.Concept
}

// TopConcepts returns up to limit concepts ordered by frequency descending,
// then name ascending for a stable listing.
func (s *Store) TopConcepts(ctx context.Context, limit int) ([]ConceptRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, entity_type, lemma, pos_tag, category, frequency
		 FROM concepts
		 ORDER BY frequency DESC, name ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying concepts: %w", err)
	}
	defer rows.Close()

	var records []ConceptRecord
	for rows.Next() {
		var rec ConceptRecord
		if err := rows.Scan(&rec.Name, &rec.EntityType, &rec.Lemma, &rec.POSTag, &rec.Category, &rec.Frequency); err != nil {
			return nil, fmt.Errorf("scanning concept row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
