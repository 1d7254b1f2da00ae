package service

import (
	"context"
	"fmt"
	"time"

	"touristhub/internal/domain"
	"touristhub/internal/models"
	"touristhub/internal/store"

	"github.com/rs/zerolog"
)

// UserService manages the admin user directory. The one-record-per-
// email invariant is checked against the mirror before the gateway
// call; the backend offers no transactional guarantee.
type UserService struct {
	gateway domain.Gateway
	store   *store.Store
	logger  *zerolog.Logger
}

func NewUserService(gateway domain.Gateway, st *store.Store, logger *zerolog.Logger) *UserService {
	return &UserService{
		gateway: gateway,
		store:   st,
		logger:  logger,
	}
}

func (s *UserService) AddUser(ctx context.Context, user models.UserRecord) (*models.UserRecord, error) {
	for _, existing := range s.store.Snapshot().Users.Values() {
		if existing.Email == user.Email {
			notify(s.store, models.NoticeError, "A user with this email already exists.")
			return nil, fmt.Errorf("user with email %s already exists", user.Email)
		}
	}

	if user.Role == "" {
		user.Role = models.RoleForEmail(user.Email)
	}
	if user.JoinDate == "" {
		user.JoinDate = time.Now().Format("2006-01-02")
	}

	created, err := s.gateway.CreateUser(ctx, &user)
	if err != nil {
		s.logger.Error().Err(err).Str("email", user.Email).Msg("user create failed")
		notify(s.store, models.NoticeError, "Failed to add user.")
		return nil, err
	}

	action, err := store.NewAddUser(*created)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return nil, err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeSuccess, "User added.")
	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, patch map[string]interface{}) error {
	merged, err := s.gateway.UpdateUser(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("user update failed")
		notify(s.store, models.NoticeError, "Failed to update user.")
		return err
	}

	action, err := store.NewUpdateUser(*merged)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeSuccess, "User updated.")
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.gateway.DeleteUser(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("user delete failed")
		notify(s.store, models.NoticeError, "Failed to delete user.")
		return err
	}

	action, err := store.NewDeleteUser(id)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeInfo, "User deleted.")
	return nil
}
