package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"moneta/internal/clock"
	"moneta/internal/connectivity"
	"moneta/internal/localstore"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/remote"
)

// dashboardService manages the singleton dashboard layout record. It is
// created lazily on the first save and updated thereafter; there is never
// more than one row. It has no pending queue: an unsynced record is uploaded
// by the next full sync pass.
type dashboardService struct {
	store   *localstore.Store
	remote  remote.Store
	monitor *connectivity.Monitor
	ids     *clock.TempIDSource
	log     *zap.SugaredLogger
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(
	store *localstore.Store,
	remoteStore remote.Store,
	monitor *connectivity.Monitor,
	ids *clock.TempIDSource,
) DashboardServicer {
	return &dashboardService{
		store:   store,
		remote:  remoteStore,
		monitor: monitor,
		ids:     ids,
		log:     logger.Get(),
	}
}

// SaveCards persists the ordered card layout, creating the singleton record
// on first save.
func (s *dashboardService) SaveCards(cards []models.DashboardCard) (models.DashboardSettings, error) {
	if cards == nil {
		cards = []models.DashboardCard{}
	}

	records, err := localstore.Load[models.DashboardSettings](s.store, localstore.KeyDashboardCards)
	if err != nil {
		return models.DashboardSettings{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	var settings models.DashboardSettings
	created := len(records) == 0
	if created {
		settings = models.DashboardSettings{ID: models.LocalID(s.ids.Next())}
	} else {
		settings = records[0]
	}
	settings.Cards = cards
	settings.UpdatedAt = now

	if err := localstore.Save(s.store, localstore.KeyDashboardCards, []models.DashboardSettings{settings}); err != nil {
		return models.DashboardSettings{}, err
	}

	if !s.monitor.Status().IsOnline {
		return settings, nil
	}

	if settings.ID.IsLocal() {
		payload, err := payloadWithoutID(settings)
		if err != nil {
			return models.DashboardSettings{}, err
		}
		serverRow, err := s.remote.Insert(context.Background(), remote.CollectionDashboardSettings, payload)
		if err != nil {
			// Reconciled by the next full sync pass.
			s.log.Warnw("remote dashboard insert failed", "id", settings.ID, "error", err)
			return settings, nil
		}
		serverSettings, err := decodeRow[models.DashboardSettings](serverRow)
		if err != nil {
			s.log.Warnw("undecodable server dashboard settings", "error", err)
			return settings, nil
		}
		if err := localstore.Save(s.store, localstore.KeyDashboardCards, []models.DashboardSettings{serverSettings}); err != nil {
			return models.DashboardSettings{}, err
		}
		return serverSettings, nil
	}

	patch, err := payloadWithoutID(settings)
	if err != nil {
		return models.DashboardSettings{}, err
	}
	if err := s.remote.Update(context.Background(), remote.CollectionDashboardSettings, settings.ID.Remote(), patch); err != nil {
		s.log.Warnw("remote dashboard update failed", "id", settings.ID, "error", err)
	}
	return settings, nil
}

// Cards returns the current layout, empty if never saved.
func (s *dashboardService) Cards() ([]models.DashboardCard, error) {
	records, err := localstore.Load[models.DashboardSettings](s.store, localstore.KeyDashboardCards)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []models.DashboardCard{}, nil
	}
	if records[0].Cards == nil {
		return []models.DashboardCard{}, nil
	}
	return records[0].Cards, nil
}
