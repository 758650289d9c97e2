package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a PostgreSQL store and applies the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS health_reports (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			category TEXT NOT NULL,
			symptoms TEXT NOT NULL,
			diagnosis TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_health_reports_user ON health_reports(user_id, created_at)`,
		// insertion order breaks created_at ties
		`ALTER TABLE health_reports ADD COLUMN IF NOT EXISTS seq BIGSERIAL`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// CreateAccount inserts a new account.
func (s *PostgresStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.Username, account.Email, account.PasswordHash, account.CreatedAt)
	if pqCode(err) == pqUniqueViolation {
		return domain.ErrDuplicateAccount
	}
	return err
}

// GetAccount retrieves an account by ID.
func (s *PostgresStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`, accountID))
}

// GetAccountByUsername retrieves an account by its exact username.
func (s *PostgresStore) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`, username))
}

func (s *PostgresStore) scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateReport inserts a report. The owning account must exist.
func (s *PostgresStore) CreateReport(ctx context.Context, report *domain.Report) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO health_reports (id, user_id, category, symptoms, diagnosis, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		report.ReportID, report.AccountID, string(report.Category), report.Symptoms, report.Diagnosis, report.CreatedAt)
	if pqCode(err) == pqForeignKeyViolation {
		return fmt.Errorf("account %s: %w", report.AccountID, domain.ErrNotFound)
	}
	return err
}

// GetReport retrieves a report owned by accountID.
func (s *PostgresStore) GetReport(ctx context.Context, reportID, accountID string) (*domain.Report, error) {
	var r domain.Report
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, symptoms, diagnosis, created_at FROM health_reports WHERE id = $1 AND user_id = $2`,
		reportID, accountID).Scan(&r.ReportID, &r.AccountID, &category, &r.Symptoms, &r.Diagnosis, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Category = domain.ReportCategory(category)
	return &r, nil
}

// ListReports returns the reports of an account, newest first.
func (s *PostgresStore) ListReports(ctx context.Context, accountID string, category domain.ReportCategory) ([]domain.Report, error) {
	query := `SELECT id, user_id, category, symptoms, diagnosis, created_at FROM health_reports WHERE user_id = $1`
	args := []interface{}{accountID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, string(category))
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		var r domain.Report
		var cat string
		if err := rows.Scan(&r.ReportID, &r.AccountID, &cat, &r.Symptoms, &r.Diagnosis, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Category = domain.ReportCategory(cat)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DeleteReport deletes a report only if accountID owns it.
func (s *PostgresStore) DeleteReport(ctx context.Context, reportID, accountID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM health_reports WHERE id = $1 AND user_id = $2`, reportID, accountID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}
