package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/conversation"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// SaveReport persists the completed diagnosis of the session to the vault.
func (s *Service) SaveReport(ctx context.Context, token string) (*domain.Report, error) {
	sc, err := s.sessions.Get(token)
	if err != nil {
		return nil, err
	}

	var draft *conversation.ReportDraft
	var accountID string
	if _, err := sc.Do(func(sess *domain.Session) error {
		if sess.Pending {
			return domain.ErrGenerationInFlight
		}
		accountID = sess.AccountID
		d, err := s.machine.Report(ctx, sess)
		draft = d
		return err
	}); err != nil {
		return nil, err
	}

	report := &domain.Report{
		ReportID:  "rpt_" + uuid.New().String()[:8],
		AccountID: accountID,
		Category:  draft.Category,
		Symptoms:  draft.Symptoms,
		Diagnosis: draft.Diagnosis,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return report, nil
}

// ListReports returns the caller's reports, newest first, optionally
// filtered by category.
func (s *Service) ListReports(ctx context.Context, token string, category domain.ReportCategory) ([]domain.Report, error) {
	if category != "" && !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	accountID, err := s.accountID(token)
	if err != nil {
		return nil, err
	}
	reports, err := s.store.ListReports(ctx, accountID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// GetReport returns one of the caller's reports.
func (s *Service) GetReport(ctx context.Context, token, reportID string) (*domain.Report, error) {
	accountID, err := s.accountID(token)
	if err != nil {
		return nil, err
	}
	report, err := s.store.GetReport(ctx, reportID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if report == nil {
		return nil, domain.ErrNotFound
	}
	return report, nil
}

// DeleteReport removes one of the caller's reports. Reports owned by
// another account are left untouched and false is returned.
func (s *Service) DeleteReport(ctx context.Context, token, reportID string) (bool, error) {
	accountID, err := s.accountID(token)
	if err != nil {
		return false, err
	}
	deleted, err := s.store.DeleteReport(ctx, reportID, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to delete report: %w", err)
	}
	return deleted, nil
}

func (s *Service) accountID(token string) (string, error) {
	sc, err := s.sessions.Get(token)
	if err != nil {
		return "", err
	}
	return sc.Snapshot().AccountID, nil
}
