package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"innoventory-ws/internal/cache"
	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/stock"
	"innoventory-ws/internal/ws"
)

type SettingsService interface {
	// Current returns the settings row, or nil when none is configured.
	Current(ctx context.Context) (*model.InventorySettings, error)
	Update(ctx context.Context, req UpdateSettingsRequest, actor ws.Actor) (*model.InventorySettings, error)
	Reset(ctx context.Context, actor ws.Actor) (*model.InventorySettings, error)
}

type UpdateSettingsRequest struct {
	LowPercentage    int `json:"low_percentage"`
	MediumPercentage int `json:"medium_percentage"`
}

type settingsService struct {
	repo  repository.SettingsRepository
	cache cache.SettingsCache // optional
	wsHub *ws.Hub
}

func NewSettingsService(repo repository.SettingsRepository, c cache.SettingsCache, hub *ws.Hub) SettingsService {
	return &settingsService{repo: repo, cache: c, wsHub: hub}
}

func (s *settingsService) Current(ctx context.Context) (*model.InventorySettings, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Msg("settings cache unavailable, reading database")
		}
		if version, err = s.cache.Version(ctx); err == nil {
			cacheable = true
		}
	}

	settings, err := s.repo.Get(ctx)
	if errors.Is(err, stock.ErrConfigurationMissing) {
		settings, err = nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load inventory settings")
	}

	if cacheable {
		if err := s.cache.Set(ctx, version, settings); err != nil {
			log.Warn().Err(err).Msg("failed to cache inventory settings")
		}
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, req UpdateSettingsRequest, actor ws.Actor) (*model.InventorySettings, error) {
	settings := &model.InventorySettings{
		ID:               model.SettingsID,
		LowPercentage:    req.LowPercentage,
		MediumPercentage: req.MediumPercentage,
		UpdatedBy:        actor.ID,
	}
	return s.save(ctx, settings, actor, "settings_updated")
}

func (s *settingsService) Reset(ctx context.Context, actor ws.Actor) (*model.InventorySettings, error) {
	settings := model.DefaultSettings()
	settings.UpdatedBy = actor.ID
	return s.save(ctx, &settings, actor, "settings_reset")
}

func (s *settingsService) save(ctx context.Context, settings *model.InventorySettings, actor ws.Actor, action string) (*model.InventorySettings, error) {
	if err := stock.ValidateSettings(settings); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, errors.Wrap(err, "save inventory settings")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Error().Err(err).Msg("failed to invalidate settings cache")
		}
	}

	log.Info().
		Str("actor", actor.ID).
		Int("low_percentage", settings.LowPercentage).
		Int("medium_percentage", settings.MediumPercentage).
		Msg("inventory settings saved")

	s.wsHub.Publish(ws.Event{
		Type:    "settings_update",
		Action:  action,
		Data:    settings,
		User:    actor,
		Message: actor.Name + " changed the stock thresholds",
	})
	return settings, nil
}
