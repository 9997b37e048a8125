package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hanlin/lexibook/internal/calendar"
	"github.com/hanlin/lexibook/internal/logger"
	"github.com/hanlin/lexibook/internal/upstream"
)

// Server glues the page controllers to HTTP. Each book-page session owns its
// own chapter-list controller; the calendar aggregator is stateless per
// request and shared.
type Server struct {
	Client        upstream.ClientInterface
	Aggregator    *calendar.Aggregator
	Sessions      *SessionStore
	PageSize      int
	DefaultBookID string
	Now           func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// writeJSON renders a response body; encode failures are logged, not
// surfaced, since the status line is already gone.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
