package api

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/samber/lo"

	"companyfinder/internal/fetcher"
	"companyfinder/internal/finder"
	"companyfinder/internal/logger"
	"companyfinder/internal/models"
)

// DatasetHandler manages the served snapshot.
type DatasetHandler struct {
	finder  *finder.Finder
	sources []fetcher.Source
}

// NewDatasetHandler creates a new API dataset handler.
func NewDatasetHandler(f *finder.Finder, sources []fetcher.Source) *DatasetHandler {
	return &DatasetHandler{finder: f, sources: sources}
}

// Refresh fetches a new snapshot synchronously. On failure the previous
// snapshot stays in service.
func (h *DatasetHandler) Refresh(c fiber.Ctx) error {
	snap, err := h.finder.Refresh(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "failed to fetch datasets; serving previous data")
	}
	if snap == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "dataset was cleared during refresh")
	}

	return jsonSuccess(c, models.RefreshResponse{
		Snapshot:  *models.NewSnapshotInfo(snap, h.finder.Fresh()),
		Companies: snap.Companies.Len(),
		Problems:  snap.Problems.Len(),
	})
}

// Status reports the served snapshot.
func (h *DatasetHandler) Status(c fiber.Ctx) error {
	snap := h.finder.Snapshot()
	resp := models.StatusResponse{
		Loaded:        snap != nil,
		Snapshot:      models.NewSnapshotInfo(snap, h.finder.Fresh()),
		ExpirySeconds: h.finder.Expiry().Seconds(),
		Sources:       lo.Map(h.sources, func(s fetcher.Source, _ int) string { return s.Name }),
	}
	if snap != nil {
		resp.AgeSeconds = h.finder.Age().Round(time.Second).Seconds()
		resp.Companies = snap.Companies.Len()
		resp.Problems = snap.Problems.Len()
	}
	return jsonSuccess(c, resp)
}

// Clear drops the served and persisted snapshot.
func (h *DatasetHandler) Clear(c fiber.Ctx) error {
	if err := h.finder.Clear(c.Context()); err != nil {
		logger.Log.Error().Err(err).Msg("failed to clear dataset cache")
		return jsonError(c, fiber.StatusInternalServerError, "failed to clear cache")
	}
	return jsonSuccess(c, fiber.Map{"cleared": true})
}
