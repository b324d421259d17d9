package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/viant/outreach/model"
	"github.com/viant/outreach/service/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS application_records (
	id          TEXT NOT NULL PRIMARY KEY,
	user_id     TEXT NOT NULL,
	job_id      TEXT NOT NULL,
	status      TEXT NOT NULL,
	reason      TEXT,
	sent_to     TEXT,
	subject     TEXT,
	response    TEXT,
	retry_count INTEGER NOT NULL DEFAULT 0,
	sent_at     DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_application_pair ON application_records (user_id, job_id);
`

// Service is a sqlite-backed ledger.Service. The unique (user_id, job_id)
// index enforces the deduplication invariant at the storage layer so
// concurrent workers racing on the same pair cannot both append.
type Service struct {
	db *sql.DB
}

// New creates a sqlite-backed ledger and ensures its schema.
func New(db *sql.DB) (*Service, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger schema: %w", err)
	}
	return &Service{db: db}, nil
}

// Open opens (or creates) a sqlite database at the supplied path and returns
// a ledger backed by it.
func Open(path string) (*Service, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	return New(db)
}

// Append implements ledger.Service.
func (s *Service) Append(ctx context.Context, record *model.ApplicationRecord) error {
	query := `
		INSERT INTO application_records (
			id, user_id, job_id, status, reason, sent_to, subject, response, retry_count, sent_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	reason := sql.NullString{String: record.Reason, Valid: record.Reason != ""}
	sentTo := sql.NullString{String: record.SentTo, Valid: record.SentTo != ""}
	subject := sql.NullString{String: record.Subject, Valid: record.Subject != ""}
	response := sql.NullString{String: record.Response, Valid: record.Response != ""}

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		string(record.UserID),
		string(record.JobID),
		string(record.Status),
		reason,
		sentTo,
		subject,
		response,
		record.RetryCount,
		record.SentAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ledger.ErrDuplicate
		}
		return fmt.Errorf("failed to append application record: %w", err)
	}
	return nil
}

// Exists implements ledger.Service.
func (s *Service) Exists(ctx context.Context, userID model.UserID, jobID model.JobID) (bool, error) {
	query := `SELECT 1 FROM application_records WHERE user_id = ? AND job_id = ? LIMIT 1`
	var one int
	err := s.db.QueryRowContext(ctx, query, string(userID), string(jobID)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check application record: %w", err)
	}
	return true, nil
}

// List implements ledger.Service.
func (s *Service) List(ctx context.Context, userID model.UserID) ([]*model.ApplicationRecord, error) {
	query := `
		SELECT id, user_id, job_id, status, reason, sent_to, subject, response, retry_count, sent_at
		FROM application_records WHERE user_id = ? ORDER BY sent_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list application records: %w", err)
	}
	defer rows.Close()

	var ret []*model.ApplicationRecord
	for rows.Next() {
		var record model.ApplicationRecord
		var userID, jobID, status string
		var reason, sentTo, subject, response sql.NullString
		var sentAt time.Time
		if err := rows.Scan(&record.ID, &userID, &jobID, &status, &reason, &sentTo, &subject, &response, &record.RetryCount, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan application record: %w", err)
		}
		record.UserID = model.UserID(userID)
		record.JobID = model.JobID(jobID)
		record.Status = model.ApplicationStatus(status)
		record.Reason = reason.String
		record.SentTo = sentTo.String
		record.Subject = subject.String
		record.Response = response.String
		record.SentAt = sentAt
		ret = append(ret, &record)
	}
	return ret, rows.Err()
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}

var _ ledger.Service = (*Service)(nil)
