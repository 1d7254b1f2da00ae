package service

import (
	"context"

	"touristhub/internal/domain"
	"touristhub/internal/events"
	"touristhub/internal/models"
	"touristhub/internal/store"

	"github.com/rs/zerolog"
)

// AuthService drives the sign-in, sign-up and sign-out flows against
// the external auth provider and keeps the state container in step.
type AuthService struct {
	auth     domain.AuthGateway
	store    *store.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewAuthService(auth domain.AuthGateway, st *store.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		auth:     auth,
		store:    st,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) error {
	s.store.Dispatch(store.LoginStart{})

	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.store.Dispatch(store.LoginError{Err: err.Error()})
		notify(s.store, models.NoticeError, err.Error())
		return err
	}

	s.store.Dispatch(store.LoginSuccess{Session: session})
	notify(s.store, models.NoticeSuccess, "Login successful!")
	s.logger.Info().Str("email", email).Str("role", session.Role).Msg("user signed in")
	return nil
}

func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) error {
	s.store.Dispatch(store.RegisterStart{})

	session, err := s.auth.SignUp(ctx, email, password, firstName, lastName)
	if err != nil {
		s.store.Dispatch(store.RegisterError{Err: err.Error()})
		notify(s.store, models.NoticeError, err.Error())
		return err
	}

	s.store.Dispatch(store.RegisterSuccess{Session: session})
	notify(s.store, models.NoticeSuccess, "Account created successfully!")

	if err := s.eventBus.PublishJSON(events.EventUserRegistered, map[string]string{"email": email}); err != nil {
		s.logger.Error().Err(err).Msg("publish event error")
	}
	return nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return err
	}

	s.store.Dispatch(store.ClearSession{})
	notify(s.store, models.NoticeInfo, "Logged out successfully")
	return nil
}

// WatchSessions applies provider session pushes until ctx is done.
// A push always supersedes whatever session the shim cached at
// startup: the provider reflects live credential state.
func (s *AuthService) WatchSessions(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case session, ok := <-s.auth.SessionEvents():
			if !ok {
				return
			}
			if session == nil {
				s.store.Dispatch(store.ClearSession{})
			} else {
				s.store.Dispatch(store.SetSession{Session: session})
			}
		}
	}
}

// notify sets the one live notification; invalid kinds cannot occur
// from these call sites.
func notify(st *store.Store, kind, text string) {
	action, err := store.NewSetNotification(kind, text)
	if err != nil {
		return
	}
	st.Dispatch(action)
}
