package service

import (
	"context"
	"log"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/adapter/document"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/session"
)

// Session returns the current snapshot of a session.
func (s *Service) Session(token string) (domain.Session, error) {
	sc, err := s.sessions.Get(token)
	if err != nil {
		return domain.Session{}, err
	}
	return sc.Snapshot(), nil
}

// SetPreferences updates the language and/or mode. Allowed while a
// generation is pending; the running request keeps its original settings.
func (s *Service) SetPreferences(token string, req domain.PreferencesRequest) (domain.Session, error) {
	if (req.Language != "" && !req.Language.Valid()) || (req.Mode != "" && !req.Mode.Valid()) {
		return domain.Session{}, domain.ErrInvalidPreference
	}
	sc, err := s.sessions.Get(token)
	if err != nil {
		return domain.Session{}, err
	}
	snap, _ := sc.Do(func(sess *domain.Session) error {
		if req.Language != "" {
			sess.Language = req.Language
		}
		if req.Mode != "" {
			sess.Mode = req.Mode
		}
		return nil
	})
	s.notify(snap)
	return snap, nil
}

// SubmitAnalysis starts a new cycle and schedules the first follow-up
// question.
func (s *Service) SubmitAnalysis(ctx context.Context, token string, in domain.Intake) (*domain.SubmitResponse, error) {
	var documentText string
	snap, err := s.transition(token, func(sess *domain.Session) error {
		text, err := s.machine.Submit(ctx, sess, in)
		documentText = text
		return err
	})
	if err != nil {
		return nil, err
	}
	return &domain.SubmitResponse{
		Session:         snap,
		DocumentPreview: document.Preview(documentText),
	}, nil
}

// AnswerFollowUp records an option and schedules the next question or the
// diagnosis.
func (s *Service) AnswerFollowUp(token, option string) (domain.Session, error) {
	return s.transition(token, func(sess *domain.Session) error {
		return s.machine.Answer(sess, option)
	})
}

// SkipFollowUp jumps to the diagnosis.
func (s *Service) SkipFollowUp(token string) (domain.Session, error) {
	return s.transition(token, s.machine.Skip)
}

// Reset starts over from the initial state.
func (s *Service) Reset(token string) (domain.Session, error) {
	return s.transition(token, func(sess *domain.Session) error {
		s.machine.Reset(sess)
		return nil
	})
}

// transition applies fn under the session lock and, when the new state has
// a pending entry action, hands it to a background generation task. At most
// one task runs per session.
func (s *Service) transition(token string, fn func(*domain.Session) error) (domain.Session, error) {
	sc, err := s.sessions.Get(token)
	if err != nil {
		return domain.Session{}, err
	}

	var work domain.Session
	var spawn bool
	snap, err := sc.Do(func(sess *domain.Session) error {
		if sess.Pending {
			return domain.ErrGenerationInFlight
		}
		if err := fn(sess); err != nil {
			return err
		}
		if needsGeneration(sess) {
			sess.Pending = true
			work = sess.Snapshot()
			spawn = true
		}
		return nil
	})
	if err != nil {
		return snap, err
	}

	s.notify(snap)
	if spawn {
		go s.runGeneration(sc, work)
	}
	return snap, nil
}

func needsGeneration(sess *domain.Session) bool {
	switch sess.State {
	case domain.StateFollowUp:
		return sess.CurrentQuestion == nil
	case domain.StateDiagnosis:
		return sess.Analysis.CompletedAt == nil
	default:
		return false
	}
}

// runGeneration performs the entry actions on a private copy of the session
// without holding its lock, then writes the result back.
func (s *Service) runGeneration(sc *session.Context, work domain.Session) {
	if work.State == domain.StateFollowUp {
		s.withGenerationTimeout(func(ctx context.Context) {
			if err := s.machine.Advance(ctx, &work); err != nil {
				log.Printf("ERROR: session %s: advance failed: %v", work.SessionID, err)
			}
		})
	}
	// follow_up may have fallen through to diagnosis
	if work.State == domain.StateDiagnosis {
		s.withGenerationTimeout(func(ctx context.Context) {
			if err := s.machine.Diagnose(ctx, &work); err != nil {
				log.Printf("ERROR: session %s: diagnose failed: %v", work.SessionID, err)
			}
		})
	}

	snap, _ := sc.Do(func(sess *domain.Session) error {
		language, mode := sess.Language, sess.Mode
		*sess = work
		sess.Language = language
		sess.Mode = mode
		sess.Pending = false
		return nil
	})
	s.notify(snap)
}

// withGenerationTimeout runs fn under a fresh per-call generation deadline.
func (s *Service) withGenerationTimeout(fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GenerationTimeout)
	defer cancel()
	fn(ctx)
}
