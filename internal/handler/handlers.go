package handler

import (
	"github.com/MKhiriev/go-stevedore/internal/config"
	"github.com/MKhiriev/go-stevedore/internal/handler/http"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.Transport, cfg.Server.RequestTimeout, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
