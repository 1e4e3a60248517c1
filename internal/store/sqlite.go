package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/voxhire/interview-agent/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS interview_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		call_id TEXT NOT NULL UNIQUE,
		candidate_phone TEXT NOT NULL,
		candidate_name TEXT,
		position TEXT NOT NULL DEFAULT 'Software Developer',
		status TEXT NOT NULL DEFAULT 'pending',
		call_duration INTEGER,
		transcript TEXT,
		recording_url TEXT,
		evaluation_score REAL,
		evaluation_json TEXT,
		recommendation TEXT,
		next_steps TEXT,
		failure_reason TEXT,
		hr_notified INTEGER NOT NULL DEFAULT 0,
		slack_message_ts TEXT,
		created_at INTEGER NOT NULL,
		call_started_at INTEGER,
		completed_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_status ON interview_sessions(status);
	CREATE INDEX IF NOT EXISTS idx_sessions_created ON interview_sessions(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// FindOrCreate looks up the session for a call ID, creating a pending session
// if none exists. The unique constraint on call_id makes concurrent creates
// collapse into one row.
func (s *SQLiteStore) FindOrCreate(ctx context.Context, callID, candidatePhone, position string) (*domain.InterviewSession, error) {
	if position == "" {
		position = "Software Developer"
	}
	query := `
	INSERT INTO interview_sessions (call_id, candidate_phone, position, status, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(call_id) DO NOTHING`

	if _, err := s.execRetry(ctx, query,
		callID, candidatePhone, position, domain.StatusPending, time.Now().Unix(),
	); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s.GetByCallID(ctx, callID)
}

// MarkInProgress transitions a pending session to in_progress.
func (s *SQLiteStore) MarkInProgress(ctx context.Context, callID string) error {
	query := `
	UPDATE interview_sessions SET status = ?, call_started_at = ?
	WHERE call_id = ? AND status = ?`

	result, err := s.execRetry(ctx, query,
		domain.StatusInProgress, time.Now().Unix(), callID, domain.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("mark in_progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		session, err := s.GetByCallID(ctx, callID)
		if err != nil {
			return err
		}
		if session.Status == domain.StatusInProgress {
			// Redelivered start signal; nothing to do.
			return nil
		}
		return fmt.Errorf("%w: status is %q", ErrAlreadyFinalized, session.Status)
	}
	return nil
}

// ApplyCompletion atomically applies the completion transition. The guarded
// UPDATE is the compare-and-swap: it only fires while the session is still
// pending or in_progress, so concurrent runs for one call ID apply at most
// one completion.
func (s *SQLiteStore) ApplyCompletion(ctx context.Context, completion *Completion) error {
	evaluationJSON, err := json.Marshal(completion.Evaluation)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}

	query := `
	UPDATE interview_sessions SET
		status = ?,
		transcript = ?,
		recording_url = ?,
		call_duration = ?,
		evaluation_score = ?,
		evaluation_json = ?,
		recommendation = ?,
		next_steps = ?,
		completed_at = ?
	WHERE call_id = ? AND status IN (?, ?)`

	result, err := s.execRetry(ctx, query,
		domain.StatusCompleted,
		completion.Transcript,
		nullableString(completion.RecordingURL),
		completion.CallDuration,
		completion.Score,
		string(evaluationJSON),
		string(completion.Recommendation),
		nullableString(completion.NextSteps),
		completion.CompletedAt.Unix(),
		completion.CallID,
		domain.StatusPending, domain.StatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("apply completion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return s.classifyGuardMiss(ctx, completion.CallID, domain.StatusCompleted)
	}
	return nil
}

// MarkFailed transitions a non-terminal session to failed.
func (s *SQLiteStore) MarkFailed(ctx context.Context, callID, reason string) error {
	query := `
	UPDATE interview_sessions SET status = ?, failure_reason = ?, completed_at = ?
	WHERE call_id = ? AND status IN (?, ?)`

	result, err := s.execRetry(ctx, query,
		domain.StatusFailed, reason, time.Now().Unix(),
		callID, domain.StatusPending, domain.StatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return s.classifyGuardMiss(ctx, callID, domain.StatusFailed)
	}
	return nil
}

// RecordNotified stamps the notification delivery on the session.
func (s *SQLiteStore) RecordNotified(ctx context.Context, callID, messageTS string) error {
	query := `UPDATE interview_sessions SET hr_notified = 1, slack_message_ts = ? WHERE call_id = ?`
	result, err := s.execRetry(ctx, query, nullableString(messageTS), callID)
	if err != nil {
		return fmt.Errorf("record notified: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// classifyGuardMiss distinguishes "no such session" from "session already in
// a terminal state" after a status-guarded UPDATE matched zero rows.
func (s *SQLiteStore) classifyGuardMiss(ctx context.Context, callID string, wanted domain.Status) error {
	session, err := s.GetByCallID(ctx, callID)
	if err != nil {
		return err
	}
	if session.Status == wanted {
		// Another run already applied the same transition.
		return ErrAlreadyFinalized
	}
	if session.Status.Terminal() {
		return fmt.Errorf("%w: status is %q", ErrAlreadyFinalized, session.Status)
	}
	return fmt.Errorf("session %s in unexpected status %q for transition to %q", callID, session.Status, wanted)
}

const sessionColumns = `
	id, call_id, candidate_phone, candidate_name, position, status,
	call_duration, transcript, recording_url,
	evaluation_score, evaluation_json, recommendation, next_steps, failure_reason,
	hr_notified, slack_message_ts,
	created_at, call_started_at, completed_at`

// GetByCallID retrieves a session by its call ID.
func (s *SQLiteStore) GetByCallID(ctx context.Context, callID string) (*domain.InterviewSession, error) {
	query := `SELECT` + sessionColumns + ` FROM interview_sessions WHERE call_id = ?`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, callID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	return session, nil
}

// ListSessions retrieves all sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*domain.InterviewSession, error) {
	query := `SELECT` + sessionColumns + ` FROM interview_sessions ORDER BY created_at DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.InterviewSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.InterviewSession, error) {
	var session domain.InterviewSession
	var candidateName, transcript, recordingURL sql.NullString
	var evaluationJSON, recommendation, nextSteps, failureReason, messageTS sql.NullString
	var callDuration sql.NullInt64
	var score sql.NullFloat64
	var createdAt int64
	var callStartedAt, completedAt sql.NullInt64

	err := row.Scan(
		&session.ID, &session.CallID, &session.CandidatePhone, &candidateName,
		&session.Position, &session.Status,
		&callDuration, &transcript, &recordingURL,
		&score, &evaluationJSON, &recommendation, &nextSteps, &failureReason,
		&session.HRNotified, &messageTS,
		&createdAt, &callStartedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	session.CandidateName = candidateName.String
	session.CallDuration = int(callDuration.Int64)
	session.Transcript = transcript.String
	session.RecordingURL = recordingURL.String
	session.Recommendation = domain.Recommendation(recommendation.String)
	session.NextSteps = nextSteps.String
	session.FailureReason = failureReason.String
	session.SlackMessageTS = messageTS.String
	session.CreatedAt = time.Unix(createdAt, 0)

	if score.Valid {
		session.Score = &score.Float64
	}
	if evaluationJSON.Valid {
		session.EvaluationJSON = &evaluationJSON.String
	}
	if callStartedAt.Valid {
		ts := time.Unix(callStartedAt.Int64, 0)
		session.CallStartedAt = &ts
	}
	if completedAt.Valid {
		ts := time.Unix(completedAt.Int64, 0)
		session.CompletedAt = &ts
	}

	return &session, nil
}

func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
