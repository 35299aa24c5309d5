package handlers

import (
	"context"

	"github.com/zarouz/scriptforge/internal/server/dto"
)

// HealthHandler reports process liveness.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health returns the service status and build version.
func (h *HealthHandler) Health(ctx context.Context, req dto.HealthRequest) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{Status: "ok", Version: h.version}, nil
}
