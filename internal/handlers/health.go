package handlers

import (
	"github.com/gofiber/fiber/v3"

	"companyfinder/internal/finder"
)

// HealthHandler reports liveness and whether a snapshot is being served.
type HealthHandler struct {
	finder *finder.Finder
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(f *finder.Finder) *HealthHandler {
	return &HealthHandler{finder: f}
}

// Healthz always answers 200; a missing snapshot is degraded, not down.
func (h *HealthHandler) Healthz(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "ok",
		"snapshot_loaded": h.finder.Snapshot() != nil,
		"fresh":           h.finder.Fresh(),
	})
}
