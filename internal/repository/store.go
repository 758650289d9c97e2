// Package repository defines the storage interface and its implementations.
package repository

import (
	"context"
	"fmt"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// Store defines the interface for data persistence. Implementations must be
// safe for concurrent use; every write is a single short statement.
type Store interface {
	// Account operations
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)

	// Report operations
	CreateReport(ctx context.Context, report *domain.Report) error
	GetReport(ctx context.Context, reportID, accountID string) (*domain.Report, error)
	ListReports(ctx context.Context, accountID string, category domain.ReportCategory) ([]domain.Report, error)
	DeleteReport(ctx context.Context, reportID, accountID string) (bool, error)

	// Lifecycle
	Close() error
}

// Open opens the store for the given driver name.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite3", "sqlite", "":
		return NewSQLiteStore(dsn)
	case "postgres":
		return NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
