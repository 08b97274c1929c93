// Package runner applies generated schema statements to the database and
// keeps a history of form deployments.
package runner

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// DeploymentsTable records every apply.
const DeploymentsTable = "form_deployments"

// Deployment is one apply of a compiled form.
type Deployment struct {
	FormID     string
	Title      string
	Statements []string
	// Tables lists the tables touched, for the history view.
	Tables []string
}

// DeploymentRecord represents a deployment execution record
type DeploymentRecord struct {
	ID             int
	FormID         string
	Title          string
	ExecutedAt     time.Time
	ExecutionTime  time.Duration
	ExecutedBy     string
	Status         string
	ErrorMessage   string
	Checksum       string
	TablesAffected string
	StatementCount int
}

const createDeploymentsTable = `
CREATE TABLE IF NOT EXISTS form_deployments (
	id SERIAL PRIMARY KEY,
	form_id TEXT NOT NULL,
	title TEXT NOT NULL,
	executed_at TIMESTAMP DEFAULT now(),
	execution_time INTERVAL,
	executed_by TEXT,
	status TEXT DEFAULT 'success',
	error_message TEXT NOT NULL DEFAULT '',
	checksum TEXT NOT NULL,
	tables_affected TEXT NOT NULL DEFAULT '',
	statement_count INTEGER NOT NULL DEFAULT 0
);
`

const insertDeployment = `
INSERT INTO form_deployments
	(form_id, title, execution_time, executed_by, status, error_message, checksum, tables_affected, statement_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func getCurrentUser() string {
	currentUser, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return currentUser.Username
}

// Checksum identifies a set of statements.
func Checksum(statements []string) string {
	hash := sha256.Sum256([]byte(strings.Join(statements, "\n")))
	return fmt.Sprintf("%x", hash)
}

func ensureDeploymentsTable(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createDeploymentsTable); err != nil {
		return fmt.Errorf("failed to create form_deployments table: %w", err)
	}
	return nil
}

func record(ctx context.Context, exec func(context.Context, string, ...any) error, d Deployment, elapsed time.Duration, status, message string) error {
	return exec(ctx, insertDeployment,
		d.FormID,
		d.Title,
		elapsed,
		getCurrentUser(),
		status,
		message,
		Checksum(d.Statements),
		strings.Join(d.Tables, ","),
		len(d.Statements),
	)
}

// Apply runs every statement of d inside one transaction and records the
// deployment. A failed deployment is rolled back and recorded as failed.
func Apply(ctx context.Context, pool *pgxpool.Pool, d Deployment) error {
	if err := ensureDeploymentsTable(ctx, pool); err != nil {
		return err
	}

	start := time.Now()
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for i, stmt := range d.Statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
		return record(ctx, txExec(tx), d, time.Since(start), StatusSuccess, "")
	})
	if err == nil {
		return nil
	}

	if recErr := record(ctx, poolExec(pool), d, time.Since(start), StatusFailed, err.Error()); recErr != nil {
		return fmt.Errorf("applying form %s: %w (recording failure: %v)", d.FormID, err, recErr)
	}
	return fmt.Errorf("applying form %s: %w", d.FormID, err)
}

func txExec(tx pgx.Tx) func(context.Context, string, ...any) error {
	return func(ctx context.Context, sql string, args ...any) error {
		_, err := tx.Exec(ctx, sql, args...)
		return err
	}
}

func poolExec(pool *pgxpool.Pool) func(context.Context, string, ...any) error {
	return func(ctx context.Context, sql string, args ...any) error {
		_, err := pool.Exec(ctx, sql, args...)
		return err
	}
}

// historyQuery builds the history select with optional filters.
func historyQuery(limit int, formID string) (string, []any) {
	query := `
		SELECT id, form_id, title, executed_at, execution_time, executed_by,
		       status, error_message, checksum, tables_affected, statement_count
		FROM form_deployments
	`

	var args []any
	if formID != "" {
		args = append(args, formID)
		query += fmt.Sprintf(" WHERE form_id = $%d", len(args))
	}

	query += " ORDER BY executed_at DESC"

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}

// History retrieves deployments, newest first, with optional filtering.
func History(ctx context.Context, pool *pgxpool.Pool, limit int, formID string) ([]DeploymentRecord, error) {
	if err := ensureDeploymentsTable(ctx, pool); err != nil {
		return nil, err
	}

	query, args := historyQuery(limit, formID)
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deployment history: %w", err)
	}
	defer rows.Close()

	var records []DeploymentRecord
	for rows.Next() {
		var rec DeploymentRecord
		var executionTime *time.Duration
		var executedBy *string

		err := rows.Scan(
			&rec.ID,
			&rec.FormID,
			&rec.Title,
			&rec.ExecutedAt,
			&executionTime,
			&executedBy,
			&rec.Status,
			&rec.ErrorMessage,
			&rec.Checksum,
			&rec.TablesAffected,
			&rec.StatementCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan deployment record: %w", err)
		}

		if executionTime != nil {
			rec.ExecutionTime = *executionTime
		}
		if executedBy != nil {
			rec.ExecutedBy = *executedBy
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}
