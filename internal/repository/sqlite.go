package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", withForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// withForeignKeys makes every pooled connection enforce foreign keys, not
// only the one that ran the PRAGMA.
func withForeignKeys(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS health_reports (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			category TEXT NOT NULL,
			symptoms TEXT NOT NULL,
			diagnosis TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_health_reports_user ON health_reports(user_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateAccount inserts a new account. A username or email collision returns
// domain.ErrDuplicateAccount.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		account.ID, account.Username, account.Email, account.PasswordHash, account.CreatedAt.UTC())
	if isSQLiteConstraint(err, sqlite3.ErrConstraintUnique) || isSQLiteConstraint(err, sqlite3.ErrConstraintPrimaryKey) {
		return domain.ErrDuplicateAccount
	}
	return err
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, accountID))
}

// GetAccountByUsername retrieves an account by its exact username.
func (s *SQLiteStore) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`, username))
}

func (s *SQLiteStore) scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateReport inserts a report. The owning account must exist.
func (s *SQLiteStore) CreateReport(ctx context.Context, report *domain.Report) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO health_reports (id, user_id, category, symptoms, diagnosis, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		report.ReportID, report.AccountID, string(report.Category), report.Symptoms, report.Diagnosis, report.CreatedAt.UTC())
	if isSQLiteConstraint(err, sqlite3.ErrConstraintForeignKey) {
		return fmt.Errorf("account %s: %w", report.AccountID, domain.ErrNotFound)
	}
	return err
}

// GetReport retrieves a report owned by accountID.
func (s *SQLiteStore) GetReport(ctx context.Context, reportID, accountID string) (*domain.Report, error) {
	var r domain.Report
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, symptoms, diagnosis, created_at FROM health_reports WHERE id = ? AND user_id = ?`,
		reportID, accountID).Scan(&r.ReportID, &r.AccountID, &category, &r.Symptoms, &r.Diagnosis, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Category = domain.ReportCategory(category)
	return &r, nil
}

// ListReports returns the reports of an account, newest first. An empty
// category returns every category.
func (s *SQLiteStore) ListReports(ctx context.Context, accountID string, category domain.ReportCategory) ([]domain.Report, error) {
	query := `SELECT id, user_id, category, symptoms, diagnosis, created_at FROM health_reports WHERE user_id = ?`
	args := []interface{}{accountID}

	if category != "" {
		query += ` AND category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

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

// DeleteReport deletes a report only if accountID owns it. It reports
// whether a row was removed.
func (s *SQLiteStore) DeleteReport(ctx context.Context, reportID, accountID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM health_reports WHERE id = ? AND user_id = ?`, reportID, accountID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func isSQLiteConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrConstraint && sqliteErr.ExtendedCode == code
}
