package service

import (
	"context"

	"touristhub/internal/domain"
	"touristhub/internal/models"
	"touristhub/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogService manages tours, destinations and site settings from
// the admin views. Tours are a local-only catalog; destinations are
// synchronized with the remote store.
type CatalogService struct {
	gateway domain.Gateway
	store   *store.Store
	logger  *zerolog.Logger
}

func NewCatalogService(gateway domain.Gateway, st *store.Store, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		gateway: gateway,
		store:   st,
		logger:  logger,
	}
}

// --- tours (local mirror only, never persisted remotely) ---

func (s *CatalogService) AddTour(tour models.Tour) (*models.Tour, error) {
	if tour.ID == "" {
		tour.ID = "tour-" + uuid.NewString()
	}
	action, err := store.NewAddTour(tour)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return nil, err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeSuccess, "Tour added.")
	return &tour, nil
}

func (s *CatalogService) UpdateTour(tour models.Tour) error {
	action, err := store.NewUpdateTour(tour)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeSuccess, "Tour updated.")
	return nil
}

func (s *CatalogService) DeleteTour(id string) error {
	action, err := store.NewDeleteTour(id)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeInfo, "Tour deleted.")
	return nil
}

// --- destinations (remote first, then mirror) ---

func (s *CatalogService) AddDestination(ctx context.Context, dest models.Destination) (*models.Destination, error) {
	created, err := s.gateway.CreateDestination(ctx, &dest)
	if err != nil {
		s.logger.Error().Err(err).Str("name", dest.Name).Msg("destination create failed")
		notify(s.store, models.NoticeError, "Failed to add destination.")
		return nil, err
	}

	action, err := store.NewAddDestination(*created)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return nil, err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeSuccess, "Destination added.")
	return created, nil
}

func (s *CatalogService) UpdateDestination(ctx context.Context, id string, patch map[string]interface{}) error {
	merged, err := s.gateway.UpdateDestination(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("destination_id", id).Msg("destination update failed")
		notify(s.store, models.NoticeError, "Failed to update destination.")
		return err
	}

	action, err := store.NewUpdateDestination(*merged)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeSuccess, "Destination updated.")
	return nil
}

func (s *CatalogService) DeleteDestination(ctx context.Context, id string) error {
	if _, err := s.gateway.DeleteDestination(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("destination_id", id).Msg("destination delete failed")
		notify(s.store, models.NoticeError, "Failed to delete destination.")
		return err
	}

	action, err := store.NewDeleteDestination(id)
	if err != nil {
		notify(s.store, models.NoticeError, err.Error())
		return err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeInfo, "Destination deleted.")
	return nil
}

// --- settings (singleton, local only) ---

func (s *CatalogService) ReplaceSettings(patch store.SettingsPatch) {
	s.store.Dispatch(store.ReplaceSettings{Patch: patch})
	notify(s.store, models.NoticeSuccess, "Settings saved.")
}
