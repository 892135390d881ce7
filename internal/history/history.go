// Package history records ingestion runs and queries in the local database
// so past activity can be inspected from the CLI and the stats endpoint.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartlearn-ai/smartlearn/internal/db"
)

// QueryKind labels the operation that produced a query-log row.
type QueryKind string

const (
	KindSearch QueryKind = "search"
	KindAsk    QueryKind = "ask"
	KindPlan   QueryKind = "plan"
	KindQuiz   QueryKind = "quiz"
)

// IngestRun is one recorded ingestion.
type IngestRun struct {
	ID             string
	StartedAt      time.Time
	RootDir        string
	FilesProcessed int
	FilesSkipped   int
	ChunksCreated  int
	ErrorCount     int
	Duration       time.Duration
}

// QueryRecord is one recorded query.
type QueryRecord struct {
	ID          string
	AskedAt     time.Time
	Query       string
	Kind        QueryKind
	K           int
	Alpha       float64
	ResultCount int
	Duration    time.Duration
}

// Store provides persistence for runs and queries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// RecordIngestRun inserts a run. If run.ID is empty a UUID is generated.
func (s *Store) RecordIngestRun(ctx context.Context, run IngestRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_runs (
			id, root_dir, files_processed, files_skipped,
			chunks_created, error_count, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.RootDir,
		run.FilesProcessed,
		run.FilesSkipped,
		run.ChunksCreated,
		run.ErrorCount,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting ingest run: %w", err)
	}
	return run.ID, nil
}

// RecordQuery inserts a query-log row. If rec.ID is empty a UUID is
// generated.
func (s *Store) RecordQuery(ctx context.Context, rec QueryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Kind == "" {
		rec.Kind = KindSearch
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_log (id, query, kind, k, alpha, result_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Query,
		string(rec.Kind),
		rec.K,
		rec.Alpha,
		rec.ResultCount,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting query record: %w", err)
	}
	return rec.ID, nil
}

// RecentIngestRuns returns the most recent runs, newest first.
func (s *Store) RecentIngestRuns(ctx context.Context, limit int) ([]IngestRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, root_dir, files_processed, files_skipped,
			   chunks_created, error_count, duration_ms
		FROM ingest_runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []IngestRun
	for rows.Next() {
		var (
			run        IngestRun
			durationMS int64
		)
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.RootDir,
			&run.FilesProcessed, &run.FilesSkipped,
			&run.ChunksCreated, &run.ErrorCount, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("scanning ingest run: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RecentQueries returns the most recent query-log rows, newest first.
func (s *Store) RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asked_at, query, kind, k, alpha, result_count, duration_ms
		FROM query_log ORDER BY asked_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying query log: %w", err)
	}
	defer rows.Close()

	var recs []QueryRecord
	for rows.Next() {
		var (
			rec        QueryRecord
			kind       string
			durationMS int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.AskedAt, &rec.Query, &kind,
			&rec.K, &rec.Alpha, &rec.ResultCount, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("scanning query record: %w", err)
		}
		rec.Kind = QueryKind(kind)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
