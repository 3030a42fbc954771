package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"moneta/internal/clock"
	"moneta/internal/connectivity"
	apperrors "moneta/internal/errors"
	"moneta/internal/localstore"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/pending"
	"moneta/internal/remote"
	"moneta/internal/validator"
)

// categoryService handles custom category business logic. Built-in categories
// are not persisted and cannot be deleted.
type categoryService struct {
	store   *localstore.Store
	queue   *pending.Queue
	remote  remote.Store
	monitor *connectivity.Monitor
	ids     *clock.TempIDSource
	log     *zap.SugaredLogger
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(
	store *localstore.Store,
	queue *pending.Queue,
	remoteStore remote.Store,
	monitor *connectivity.Monitor,
	ids *clock.TempIDSource,
) CategoryServicer {
	return &categoryService{
		store:   store,
		queue:   queue,
		remote:  remoteStore,
		monitor: monitor,
		ids:     ids,
		log:     logger.Get(),
	}
}

// CreateCategory creates a custom category, rejecting duplicates of both
// built-in and existing custom categories of the same type.
func (s *categoryService) CreateCategory(input CategoryInput) (models.CustomCategory, error) {
	if err := validator.Struct(input); err != nil {
		return models.CustomCategory{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	name := strings.TrimSpace(input.Name)
	categoryType := models.TransactionType(input.Type)

	for _, c := range models.DefaultCategories() {
		if c.Type == categoryType && strings.EqualFold(c.Name, name) {
			return models.CustomCategory{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "category already exists as a built-in")
		}
	}
	existing, err := s.CustomCategories()
	if err != nil {
		return models.CustomCategory{}, err
	}
	for _, c := range existing {
		if c.Type == categoryType && strings.EqualFold(c.Name, name) {
			return models.CustomCategory{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
		}
	}

	category := models.CustomCategory{
		ID:        models.LocalID(s.ids.Next()),
		Name:      name,
		Type:      categoryType,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	existing = append([]models.CustomCategory{category}, existing...)
	if err := localstore.Save(s.store, localstore.KeyCustomCategories, existing); err != nil {
		return models.CustomCategory{}, err
	}

	if !s.monitor.Status().IsOnline {
		if err := pending.Enqueue(s.queue, localstore.KeyPendingCustomCategories, category); err != nil {
			return models.CustomCategory{}, err
		}
		return category, nil
	}

	payload, err := payloadWithoutID(category)
	if err != nil {
		return models.CustomCategory{}, err
	}
	serverRow, err := s.remote.Insert(context.Background(), remote.CollectionCustomCategories, payload)
	if err != nil {
		s.log.Warnw("remote insert failed, queueing category", "id", category.ID, "error", err)
		if qErr := pending.Enqueue(s.queue, localstore.KeyPendingCustomCategories, category); qErr != nil {
			return models.CustomCategory{}, qErr
		}
		return category, nil
	}

	serverCategory, err := decodeRow[models.CustomCategory](serverRow)
	if err != nil {
		s.log.Warnw("undecodable server category, queueing", "id", category.ID, "error", err)
		if qErr := pending.Enqueue(s.queue, localstore.KeyPendingCustomCategories, category); qErr != nil {
			return models.CustomCategory{}, qErr
		}
		return category, nil
	}

	for i := range existing {
		if existing[i].ID == category.ID {
			existing[i] = serverCategory
			break
		}
	}
	if err := localstore.Save(s.store, localstore.KeyCustomCategories, existing); err != nil {
		return models.CustomCategory{}, err
	}
	return serverCategory, nil
}

// DeleteCategory removes a custom category. The queued pending entry, if
// any, is purged so a delayed flush cannot resurrect it.
func (s *categoryService) DeleteCategory(id models.ID) error {
	categories, err := s.CustomCategories()
	if err != nil {
		return err
	}
	idx := -1
	for i := range categories {
		if categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrCategoryNotFound
	}

	categories = append(categories[:idx], categories[idx+1:]...)
	if err := localstore.Save(s.store, localstore.KeyCustomCategories, categories); err != nil {
		return err
	}
	if err := pending.Remove(s.queue, localstore.KeyPendingCustomCategories,
		func(e models.CustomCategory) bool { return e.ID == id }); err != nil {
		return err
	}

	if !id.IsLocal() && s.monitor.Status().IsOnline {
		if err := s.remote.Delete(context.Background(), remote.CollectionCustomCategories, id.Remote()); err != nil {
			s.log.Warnw("remote category delete failed", "id", id, "error", err)
		}
	}
	return nil
}

// CustomCategories returns the persisted custom categories.
func (s *categoryService) CustomCategories() ([]models.CustomCategory, error) {
	return localstore.Load[models.CustomCategory](s.store, localstore.KeyCustomCategories)
}

// Categories returns the built-in categories of the given type followed by
// the user's custom ones.
func (s *categoryService) Categories(categoryType models.TransactionType) ([]models.Category, error) {
	var result []models.Category
	for _, c := range models.DefaultCategories() {
		if c.Type == categoryType {
			result = append(result, c)
		}
	}
	custom, err := s.CustomCategories()
	if err != nil {
		return nil, err
	}
	for _, c := range custom {
		if c.Type == categoryType {
			result = append(result, models.Category{Name: c.Name, Type: c.Type})
		}
	}
	return result, nil
}
