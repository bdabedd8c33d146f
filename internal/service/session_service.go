package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"goodtime-diagnostic/internal/cache"
	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/wizard"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrStatsUnavailable = errors.New("stats are not enabled")
)

const mirrorTimeout = 2 * time.Second

// SessionService owns the live wizard controllers. Controllers are kept in
// a bounded LRU and every state change is mirrored to Redis so an evicted
// session can be rehydrated.
type SessionService struct {
	bank *diagnostic.Bank
	cfg  wizard.Config
	auth *AuthService

	live *lru.Cache[string, *wizard.Controller]
	// serialises rehydration so one id never gets two controllers
	loadMu sync.Mutex

	sessions    cache.SessionCache
	stats       cache.StatsCache
	analysis    wizard.AnalysisClient
	sink        wizard.NotificationSink
	broadcaster Broadcaster
}

// NewSessionService creates a session service holding at most size live sessions
func NewSessionService(bank *diagnostic.Bank, cfg wizard.Config, auth *AuthService, size int) (*SessionService, error) {
	live, err := lru.New[string, *wizard.Controller](size)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &SessionService{
		bank: bank,
		cfg:  cfg,
		auth: auth,
		live: live,
	}, nil
}

// SetSessionCache enables the Redis mirror
func (s *SessionService) SetSessionCache(c cache.SessionCache) {
	s.sessions = c
}

// SetStatsCache enables counters over finished diagnostics
func (s *SessionService) SetStatsCache(c cache.StatsCache) {
	s.stats = c
}

// SetAnalysisClient sets the client used by every new controller
func (s *SessionService) SetAnalysisClient(a wizard.AnalysisClient) {
	s.analysis = a
}

// SetNotificationSink sets the sink used by every new controller
func (s *SessionService) SetNotificationSink(sink wizard.NotificationSink) {
	s.sink = sink
}

// SetBroadcaster sets the broadcaster for state pushes
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create opens a new diagnostic session on the welcome step
func (s *SessionService) Create(ctx context.Context) (*model.SessionCreated, error) {
	id := uuid.New().String()
	token, err := s.auth.GenerateSessionToken(id)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	ctrl := s.newController(id)
	s.live.Add(id, ctrl)

	view := ctrl.View()
	s.mirror(ctx, &view.WizardState)

	log.Printf("Diagnostic session %s created", id)
	return &model.SessionCreated{
		SessionID: id,
		Token:     token,
		State:     &view,
	}, nil
}

// Get returns the controller of a session, rehydrating it from Redis when
// it is no longer live
func (s *SessionService) Get(ctx context.Context, id string) (*wizard.Controller, error) {
	if ctrl, ok := s.live.Get(id); ok {
		return ctrl, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if ctrl, ok := s.live.Get(id); ok {
		return ctrl, nil
	}
	if s.sessions == nil {
		return nil, ErrSessionNotFound
	}

	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}

	ctrl := s.newController(id)
	if err := ctrl.Restore(*state); err != nil {
		log.Printf("Warning: discarding unreadable snapshot of session %s: %v", id, err)
		return nil, ErrSessionNotFound
	}
	s.live.Add(id, ctrl)
	log.Printf("Diagnostic session %s rehydrated at step %s", id, state.Step)
	return ctrl, nil
}

// Close stops a session, forgets it and disconnects its subscribers
func (s *SessionService) Close(ctx context.Context, id string) error {
	ctrl, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ctrl.Close()
	s.live.Remove(id)
	if s.sessions != nil {
		if err := s.sessions.Delete(ctx, id); err != nil {
			log.Printf("Warning: failed to delete snapshot of session %s: %v", id, err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(id, MsgSessionClosed, map[string]string{"sessionId": id})
		s.broadcaster.DisconnectSession(id)
	}
	log.Printf("Diagnostic session %s closed", id)
	return nil
}

// Stats returns the counters over finished diagnostics
func (s *SessionService) Stats(ctx context.Context) (*model.Stats, error) {
	if s.stats == nil {
		return nil, ErrStatsUnavailable
	}
	return s.stats.Get(ctx)
}

// ValidateToken checks that token grants access to sessionID
func (s *SessionService) ValidateToken(token, sessionID string) error {
	claims, err := s.auth.ValidateSessionToken(token)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return ErrInvalidToken
	}
	return nil
}

func (s *SessionService) newController(id string) *wizard.Controller {
	ctrl := wizard.NewController(id, s.bank, s.cfg)
	if s.analysis != nil {
		ctrl.SetAnalysisClient(s.analysis)
	}
	if s.sink != nil {
		ctrl.SetNotificationSink(s.sink)
	}
	ctrl.OnChange(s.publish)
	return ctrl
}

// publish runs under the controller lock on every state change
func (s *SessionService) publish(view model.SessionView) {
	s.mirror(context.Background(), &view.WizardState)

	if view.Step == model.StepResults && view.Display != nil {
		s.record(view)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(view.SessionID, MsgStateChanged, view)
	}
}

func (s *SessionService) mirror(ctx context.Context, state *model.WizardState) {
	if s.sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorTimeout)
	defer cancel()
	if err := s.sessions.Set(ctx, state); err != nil {
		log.Printf("Warning: failed to mirror session %s: %v", state.SessionID, err)
	}
}

func (s *SessionService) record(view model.SessionView) {
	if s.stats == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	if err := s.stats.Record(ctx, view.Segment.ID, view.Scores, view.Answers); err != nil {
		log.Printf("Warning: failed to record stats for session %s: %v", view.SessionID, err)
	}
}
