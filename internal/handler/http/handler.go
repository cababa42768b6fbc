package http

import (
	"time"

	"github.com/MKhiriev/go-stevedore/internal/config"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/service"
	"github.com/MKhiriev/go-stevedore/internal/utils"
)

type Handler struct {
	services  *service.Services
	transport config.Transport
	timeout   time.Duration
	traceIDs  *utils.UUIDGenerator

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. requestTimeout bounds each request;
// zero disables the limit.
func NewHandler(services *service.Services, transport config.Transport, requestTimeout time.Duration, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		transport: transport,
		timeout:   requestTimeout,
		traceIDs:  utils.NewUUIDGenerator(),
		logger:    logger,
	}
}
