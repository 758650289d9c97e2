package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func createAccount(t *testing.T, store Store, id, username, email string) *domain.Account {
	t.Helper()
	account := &domain.Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "digest",
		CreatedAt:    time.Now(),
	}
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	return account
}

func TestSQLiteStoreAccounts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	createAccount(t, store, "u1", "alice", "a@x.com")

	got, err := store.GetAccountByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetAccountByUsername failed: %v", err)
	}
	if got == nil || got.ID != "u1" || got.Email != "a@x.com" || got.PasswordHash != "digest" {
		t.Fatalf("unexpected account: %+v", got)
	}

	byID, err := store.GetAccount(ctx, "u1")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if byID == nil || byID.Username != "alice" {
		t.Fatalf("unexpected account: %+v", byID)
	}

	missing, err := store.GetAccountByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetAccountByUsername failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil account, got %+v", missing)
	}
}

func TestSQLiteStoreDuplicateAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	createAccount(t, store, "u1", "alice", "a@x.com")

	sameUsername := &domain.Account{ID: "u2", Username: "alice", Email: "other@x.com", PasswordHash: "d", CreatedAt: time.Now()}
	if err := store.CreateAccount(ctx, sameUsername); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount for username, got %v", err)
	}

	sameEmail := &domain.Account{ID: "u3", Username: "carol", Email: "a@x.com", PasswordHash: "d", CreatedAt: time.Now()}
	if err := store.CreateAccount(ctx, sameEmail); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount for email, got %v", err)
	}
}

func TestSQLiteStoreReportsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	createAccount(t, store, "u1", "alice", "a@x.com")

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"r1", "r2", "r3"} {
		report := &domain.Report{
			ReportID:  id,
			AccountID: "u1",
			Category:  domain.CategoryGeneral,
			Symptoms:  "fever",
			Diagnosis: "rest",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.CreateReport(ctx, report); err != nil {
			t.Fatalf("CreateReport failed: %v", err)
		}
	}

	reports, err := store.ListReports(ctx, "u1", "")
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[0].ReportID != "r3" || reports[1].ReportID != "r2" || reports[2].ReportID != "r1" {
		t.Fatalf("unexpected order: %s %s %s", reports[0].ReportID, reports[1].ReportID, reports[2].ReportID)
	}
}

func TestSQLiteStoreReportCategoryFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	createAccount(t, store, "u1", "alice", "a@x.com")
	now := time.Now()
	_ = store.CreateReport(ctx, &domain.Report{ReportID: "r1", AccountID: "u1", Category: domain.CategoryGeneral, Symptoms: "s", Diagnosis: "d", CreatedAt: now})
	_ = store.CreateReport(ctx, &domain.Report{ReportID: "r2", AccountID: "u1", Category: domain.CategoryRadiology, Symptoms: "s", Diagnosis: "d", CreatedAt: now})

	reports, err := store.ListReports(ctx, "u1", domain.CategoryRadiology)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 1 || reports[0].ReportID != "r2" {
		t.Fatalf("unexpected reports: %+v", reports)
	}
}

func TestSQLiteStoreReportRequiresAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	err := store.CreateReport(ctx, &domain.Report{ReportID: "r1", AccountID: "ghost", Category: domain.CategoryGeneral, Symptoms: "s", Diagnosis: "d", CreatedAt: time.Now()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreDeleteReportOwnership(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	createAccount(t, store, "u1", "alice", "a@x.com")
	createAccount(t, store, "u2", "bob", "b@x.com")
	if err := store.CreateReport(ctx, &domain.Report{ReportID: "r1", AccountID: "u1", Category: domain.CategoryGeneral, Symptoms: "s", Diagnosis: "d", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	deleted, err := store.DeleteReport(ctx, "r1", "u2")
	if err != nil {
		t.Fatalf("DeleteReport failed: %v", err)
	}
	if deleted {
		t.Fatalf("expected foreign delete to be a no-op")
	}
	if got, _ := store.GetReport(ctx, "r1", "u2"); got != nil {
		t.Fatalf("expected report hidden from non-owner")
	}

	reports, _ := store.ListReports(ctx, "u1", "")
	if len(reports) != 1 {
		t.Fatalf("expected report to survive, got %d", len(reports))
	}

	deleted, err = store.DeleteReport(ctx, "r1", "u1")
	if err != nil || !deleted {
		t.Fatalf("expected owner delete to succeed: deleted=%v err=%v", deleted, err)
	}
	if got, _ := store.GetReport(ctx, "r1", "u1"); got != nil {
		t.Fatalf("expected report to be gone")
	}
}

func TestWithForeignKeys(t *testing.T) {
	cases := map[string]string{
		":memory:":                  ":memory:",
		"file:a.db":                 "file:a.db?_foreign_keys=on",
		"file:a.db?mode=rwc":        "file:a.db?mode=rwc&_foreign_keys=on",
		"file:a.db?_foreign_keys=1": "file:a.db?_foreign_keys=1",
	}
	for in, want := range cases {
		if got := withForeignKeys(in); got != want {
			t.Fatalf("withForeignKeys(%q) = %q, want %q", in, got, want)
		}
	}
}
