package service

import (
	"github.com/MKhiriev/go-stevedore/internal/cache"
	"github.com/MKhiriev/go-stevedore/internal/config"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/store"
	"github.com/MKhiriev/go-stevedore/models"
)

type Services struct {
	AppointmentService AppointmentService
	AppInfoService     AppInfoService
}

func NewServices(storages *store.Storages, c cache.Cache, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, err
	}

	appointments := NewAppointmentValidationService().
		Wrap(NewAppointmentService(storages.AppointmentRepository, c, cfg.Storage.Cache.TTL, logger))

	return &Services{
		AppointmentService: appointments,
		AppInfoService:     appInfo,
	}, nil
}
