package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/worktally/attendance-backend-go/internal/domain/archive"
	"github.com/worktally/attendance-backend-go/internal/handler/http/response"
	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
)

type ArchiveHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
}

type archiveHandlerImpl struct {
	archiveService archive.Service
	clk            clock.Clock
}

func NewArchiveHandler(archiveService archive.Service, clk clock.Clock) ArchiveHandler {
	return &archiveHandlerImpl{
		archiveService: archiveService,
		clk:            clk,
	}
}

type runArchiveRequest struct {
	// Date selects the day to archive (YYYY-MM-DD). Empty means yesterday.
	Date string `json:"date,omitempty"`
}

// Run implements ArchiveHandler. Manual trigger for the same job the
// scheduler runs at midnight, used for catch-up after an outage.
func (h *archiveHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	var req runArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	forDate := clock.Midnight(h.clk.Now()).AddDate(0, 0, -1)
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.BadRequest(w, "Field 'date' must be YYYY-MM-DD", nil)
			return
		}
		forDate = parsed
	}

	result, err := h.archiveService.Run(r.Context(), forDate)
	if err != nil {
		if errors.Is(err, archive.ErrPartialFailure) {
			// Failed sources stay live; the caller (or the next cron tick)
			// can rerun for the same day. The partial result is returned so
			// the caller can see what was archived and what was not.
			response.InternalServerErrorWithData(w, "Some attendance records could not be archived", result)
			return
		}
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Archive run completed", result)
}
