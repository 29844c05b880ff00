package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/ashleyrevlett/youtube-guardian/internal/middleware"
	"github.com/ashleyrevlett/youtube-guardian/internal/model"
	"github.com/ashleyrevlett/youtube-guardian/internal/repository"
	"github.com/ashleyrevlett/youtube-guardian/pkg/watchid"
)

const maxHistoryEntries = 50000

type HistoryHandler struct {
	historyRepo *repository.HistoryRepo
}

func NewHistoryHandler(historyRepo *repository.HistoryRepo) *HistoryHandler {
	return &HistoryHandler{historyRepo: historyRepo}
}

// Ingest handles POST /api/history
// Replaces the stored watch history with the posted export. Entries without a
// resolvable video id are kept (they still count toward nothing but are
// reported as unresolved); the export's order is preserved.
func (h *HistoryHandler) Ingest(c fiber.Ctx) error {
	var entries []model.WatchEventRequest
	if err := c.Bind().Body(&entries); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY",
			"Request body must be a JSON array of watch-history entries")
	}
	if len(entries) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "EMPTY_HISTORY",
			"Watch history must contain at least one entry")
	}
	if len(entries) > maxHistoryEntries {
		return middleware.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "HISTORY_TOO_LARGE",
			"Watch history exceeds the maximum entry count")
	}

	events := make([]model.WatchEvent, 0, len(entries))
	unresolved := 0
	for i, e := range entries {
		ev := model.WatchEvent{
			WatchedAt:       e.Time,
			TitleSnapshot:   e.Title,
			ChannelSnapshot: e.ChannelName,
			Position:        i,
		}
		switch {
		case watchid.Valid(e.VideoID):
			id := e.VideoID
			ev.VideoID = &id
		default:
			if id, ok := watchid.FromURL(e.TitleURL); ok {
				ev.VideoID = &id
			} else {
				unresolved++
			}
		}
		events = append(events, ev)
	}

	if err := h.historyRepo.ReplaceAll(c.Context(), events); err != nil {
		log.Error().Err(err).Msg("history ingest failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to store watch history")
	}

	log.Info().Int("entries", len(events)).Int("unresolved", unresolved).Msg("watch history replaced")

	return c.JSON(model.IngestResponse{
		Imported:   len(events) - unresolved,
		Unresolved: unresolved,
	})
}
