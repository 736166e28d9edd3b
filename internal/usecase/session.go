package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goonline/platform/internal/adapter/metrics"
	"github.com/goonline/platform/internal/domain"
)

const minPasswordLength = 6

// SessionService owns the process-wide session state: resolving at start,
// then authenticated or anonymous until an explicit sign-in or sign-out.
// Controllers read it through this accessor, never through a bare global.
type SessionService struct {
	auth     domain.Authenticator
	profiles domain.ProfileRepository
	logger   *slog.Logger
	metrics  *metrics.ViewMetrics

	mu    sync.RWMutex
	state domain.SessionState
	subs  map[chan domain.SessionState]struct{}
}

// NewSessionService creates a session service in the resolving phase.
func NewSessionService(auth domain.Authenticator, profiles domain.ProfileRepository, logger *slog.Logger, m *metrics.ViewMetrics) *SessionService {
	return &SessionService{
		auth:     auth,
		profiles: profiles,
		logger:   logger,
		metrics:  m,
		state:    domain.SessionState{Phase: domain.PhaseResolving},
		subs:     make(map[chan domain.SessionState]struct{}),
	}
}

// Resolve settles the initial resolving phase from a previously stored
// access token. An empty or unusable token resolves to anonymous; this is
// the only entry into resolving besides process start.
func (s *SessionService) Resolve(ctx context.Context, accessToken string) {
	if accessToken == "" {
		s.setState(domain.SessionState{Phase: domain.PhaseAnonymous})
		return
	}

	session, err := s.auth.CurrentUser(ctx, accessToken)
	if err != nil {
		s.logger.Warn("stored session could not be resolved", "error", err)
		s.setState(domain.SessionState{Phase: domain.PhaseAnonymous})
		return
	}

	session.Profile = s.loadProfile(ctx, session)
	s.setState(domain.SessionState{Phase: domain.PhaseAuthenticated, Session: session})
}

// SignUp creates an identity and its profile record, atomically from the
// caller's perspective: on any failure the session stays unpopulated.
func (s *SessionService) SignUp(ctx context.Context, email, password, fullName string, role domain.ProfileRole) error {
	if len(password) < minPasswordLength {
		s.countAuth("signup", "error")
		return domain.ErrWeakPassword
	}
	if !role.Valid() {
		s.countAuth("signup", "error")
		return &domain.ValidationError{Fields: []string{"role"}}
	}

	session, err := s.auth.CreateAccount(ctx, email, password)
	if err != nil {
		s.countAuth("signup", "error")
		return err
	}

	profile := domain.Profile{ID: session.Identity, FullName: fullName, Role: role}
	if err := s.profiles.Store(ctx, &profile); err != nil {
		// Roll back what we can: the identity exists remotely, but the
		// caller must not observe a half-created account as signed in.
		if invErr := s.auth.Invalidate(ctx, session.AccessToken); invErr != nil {
			s.logger.Warn("failed to invalidate session after profile store failure", "error", invErr)
		}
		s.countAuth("signup", "error")
		return fmt.Errorf("create profile: %w", err)
	}

	session.Profile = profile
	s.countAuth("signup", "success")
	s.setState(domain.SessionState{Phase: domain.PhaseAuthenticated, Session: session})
	return nil
}

// SignIn resolves a session from stored credentials.
func (s *SessionService) SignIn(ctx context.Context, email, password string) error {
	session, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.countAuth("signin", "error")
		return err
	}

	session.Profile = s.loadProfile(ctx, session)
	s.countAuth("signin", "success")
	s.setState(domain.SessionState{Phase: domain.PhaseAuthenticated, Session: session})
	return nil
}

// SignOut clears the session. The local clear never fails; remote
// invalidation is best effort and its failure is logged only.
func (s *SessionService) SignOut(ctx context.Context) {
	s.mu.RLock()
	var token string
	if s.state.Session != nil {
		token = s.state.Session.AccessToken
	}
	s.mu.RUnlock()

	s.setState(domain.SessionState{Phase: domain.PhaseAnonymous})
	s.countAuth("signout", "success")

	if token == "" {
		return
	}
	if err := s.auth.Invalidate(ctx, token); err != nil {
		s.logger.Warn("remote session invalidation failed", "error", err)
	}
}

// Current returns the latest known session state synchronously.
func (s *SessionService) Current() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AccessToken returns the current session's token, or empty when there is
// none. Installed as the data client's token source.
func (s *SessionService) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Session == nil {
		return ""
	}
	return s.state.Session.AccessToken
}

// Subscribe returns a channel that receives the current state immediately
// and every subsequent change. The returned cancel func releases the
// subscription.
func (s *SessionService) Subscribe() (<-chan domain.SessionState, func()) {
	ch := make(chan domain.SessionState, 8)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SubscriberCount.Inc()
	}

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
			if s.metrics != nil {
				s.metrics.SubscriberCount.Dec()
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *SessionService) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	for ch := range s.subs {
		select {
		case ch <- state:
		default:
			// Slow subscriber; it will catch up on the next change.
		}
	}
	s.mu.Unlock()

	if s.metrics != nil {
		if state.Phase == domain.PhaseAuthenticated {
			s.metrics.SessionsActive.Set(1)
		} else {
			s.metrics.SessionsActive.Set(0)
		}
	}
}

// loadProfile fetches the profile for a freshly resolved session. A
// missing profile row degrades to an owner-role placeholder rather than
// failing the sign-in.
func (s *SessionService) loadProfile(ctx context.Context, session *domain.Session) domain.Profile {
	profile, err := s.profiles.FindByID(ctx, session.Identity)
	if err != nil {
		s.logger.Warn("profile not available for session", "identity", session.Identity, "error", err)
		return domain.Profile{ID: session.Identity, Role: domain.RoleOwner}
	}
	return *profile
}

func (s *SessionService) countAuth(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.AuthAttempts.WithLabelValues(kind, outcome).Inc()
	}
}
