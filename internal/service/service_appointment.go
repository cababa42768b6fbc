package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/MKhiriev/go-stevedore/internal/cache"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/store"
	"github.com/MKhiriev/go-stevedore/models"
)

// appointmentService reads appointments through the cache and invalidates
// cached entries on every write. Cache failures are logged and never fail
// the request.
type appointmentService struct {
	repo  store.AppointmentRepository
	cache cache.Cache
	ttl   time.Duration

	logger *logger.Logger
}

// NewAppointmentService builds the core service. c may be nil, which
// disables caching.
func NewAppointmentService(repo store.AppointmentRepository, c cache.Cache, ttl time.Duration, logger *logger.Logger) AppointmentService {
	return &appointmentService{
		repo:   repo,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func appointmentCacheKey(id int64) string {
	return "appointment:" + strconv.FormatInt(id, 10)
}

func (s *appointmentService) Create(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return models.Appointment{}, err
	}
	s.remember(ctx, created)
	return created, nil
}

func (s *appointmentService) Get(ctx context.Context, id int64) (models.Appointment, error) {
	if cached, ok := s.lookup(ctx, id); ok {
		return cached, nil
	}

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	s.remember(ctx, a)
	return a, nil
}

func (s *appointmentService) List(ctx context.Context, filter models.AppointmentFilter) (models.AppointmentPage, error) {
	return s.repo.List(ctx, filter)
}

func (s *appointmentService) Update(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) || errors.Is(err, store.ErrAppointmentNotFound) {
			s.forget(ctx, a.ID)
		}
		return models.Appointment{}, err
	}
	s.forget(ctx, a.ID)
	return updated, nil
}

func (s *appointmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(ctx, id)
	return nil
}

func (s *appointmentService) lookup(ctx context.Context, id int64) (models.Appointment, bool) {
	if s.cache == nil {
		return models.Appointment{}, false
	}
	log := logger.FromContext(ctx)

	raw, err := s.cache.Get(ctx, appointmentCacheKey(id))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheKeyNotFound) {
			log.Warn().Err(err).Str("func", "appointmentService.lookup").Int64("id", id).Msg("cache read failed")
		}
		return models.Appointment{}, false
	}

	var a models.Appointment
	if err = json.Unmarshal(raw, &a); err != nil {
		log.Warn().Err(err).Str("func", "appointmentService.lookup").Int64("id", id).Msg("dropping undecodable cache entry")
		s.forget(ctx, id)
		return models.Appointment{}, false
	}
	return a, true
}

func (s *appointmentService) remember(ctx context.Context, a models.Appointment) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err = s.cache.Set(ctx, appointmentCacheKey(a.ID), raw, s.ttl); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "appointmentService.remember").
			Int64("id", a.ID).
			Msg("cache write failed")
	}
}

func (s *appointmentService) forget(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, appointmentCacheKey(id)); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "appointmentService.forget").
			Int64("id", id).
			Msg("cache invalidation failed")
	}
}
