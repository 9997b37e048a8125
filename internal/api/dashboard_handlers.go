package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hanlin/lexibook/internal/dateutil"
	"github.com/hanlin/lexibook/internal/errors"
	"github.com/hanlin/lexibook/internal/logger"
	"github.com/hanlin/lexibook/internal/models"
)

type dashboardResponse struct {
	StudyStats   *models.StudyStats   `json:"study_stats"`
	Calendar     models.CalendarMonth `json:"calendar"`
	SelectedDate string               `json:"selected_date,omitempty"`
}

// handleDashboard serves the vocabulary-study dashboard: the study-stat
// headline plus the calendar for the month of the optional deep-link date.
// Study stats are a primary load and surface failures; calendar shading is
// enrichment and degrades silently inside the aggregator.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	// Malformed deep-link dates are dropped, not propagated: the dashboard
	// opens on today's month as if no date was given.
	selected := ""
	target := s.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := dateutil.ParseISODate(raw)
		if err != nil {
			log.Warn("ignoring malformed deep-link date %q", raw)
		} else {
			target = parsed
			selected = raw
		}
	}

	stats, err := s.Client.FetchStudyStats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	grid, err := s.Aggregator.LoadMonth(r.Context(), target.Year(), int(target.Month()))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dashboardResponse{
		StudyStats:   stats,
		Calendar:     grid,
		SelectedDate: selected,
	})
}

// handleCalendarMonth serves the shaded grid for an arbitrary month, used
// when the user swipes between months.
func (s *Server) handleCalendarMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("year", "must be an integer"))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("month", "must be an integer"))
		return
	}

	grid, err := s.Aggregator.LoadMonth(r.Context(), year, month)
	if err != nil {
		handleError(w, r, errors.NewValidationError("month", err.Error()))
		return
	}

	writeJSON(w, r, http.StatusOK, grid)
}
