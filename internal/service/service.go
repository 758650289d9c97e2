package service

import (
	"time"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/config"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/conversation"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/repository"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/session"
)

// Notifier receives every session snapshot after a transition and is told
// when a session ends.
type Notifier interface {
	Publish(sessionID string, event *domain.SessionEvent)
	CloseSession(sessionID string)
}

type Service struct {
	store    repository.Store
	machine  *conversation.Machine
	sessions *session.Registry
	notifier Notifier
	config   *config.Config
}

func New(store repository.Store, machine *conversation.Machine, sessions *session.Registry, notifier Notifier, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		machine:  machine,
		sessions: sessions,
		notifier: notifier,
		config:   cfg,
	}
}

// GenerationAvailable reports whether analyses can be submitted at all.
func (s *Service) GenerationAvailable() bool {
	return s.machine.Available()
}

func (s *Service) notify(snap domain.Session) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(snap.SessionID, &domain.SessionEvent{
		Type:    domain.SessionEventType,
		Ts:      time.Now().UnixMilli(),
		Session: snap,
	})
}
