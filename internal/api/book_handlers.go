package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanlin/lexibook/internal/chapterlist"
	"github.com/hanlin/lexibook/internal/errors"
	"github.com/hanlin/lexibook/internal/logger"
)

// stateView is the chapter-list state as rendered to the mini-app.
type stateView struct {
	SessionID string            `json:"session_id,omitempty"`
	State     chapterlist.State `json:"state"`
	Signals   Signals           `json:"signals"`
}

type enterRequest struct {
	BookID string `json:"book_id"`
}

// handleBookEnter creates a fresh page session for a book and runs the
// initial load. A missing book id falls back to the configured default book,
// mirroring how the page behaves when opened without query parameters.
func (s *Server) handleBookEnter(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	// An empty body is fine: it means "default book".
	var req enterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		handleError(w, r, errors.NewBadRequestError("malformed request body"))
		return
	}
	bookID := req.BookID
	if bookID == "" {
		bookID = s.DefaultBookID
		log.Debug("no book id supplied, using default %s", bookID)
	}

	signals := &SignalBuffer{}
	controller := chapterlist.New(s.Client, signals, bookID, s.PageSize)
	sessionID := s.Sessions.Create(controller, signals)

	// A failed initial load still yields a session; the failure rides along
	// as a toast and the page retries via refresh.
	if err := controller.LoadInitial(r.Context()); err != nil {
		log.Warn("initial load failed for book %s: %v", bookID, err)
	}

	writeJSON(w, r, http.StatusOK, stateView{
		SessionID: sessionID,
		State:     controller.Snapshot(),
		Signals:   signals.Drain(),
	})
}

// session resolves the session path parameter, or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "session")
	sess, ok := s.Sessions.Get(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("session", id))
		return nil, false
	}
	return sess, true
}

// handleBookMore loads the next chapter page. Bursts of scroll events are
// absorbed by the controller's single-flight guard; the response always
// reflects whatever state the controller currently has.
func (s *Server) handleBookMore(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := sess.Controller.LoadMore(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn("load more failed: %v", err)
	}

	writeJSON(w, r, http.StatusOK, stateView{
		State:   sess.Controller.Snapshot(),
		Signals: sess.Signals.Drain(),
	})
}

// handleBookRefresh is pull-to-refresh: identical to the initial load,
// resetting pagination even when partial pages were loaded before.
func (s *Server) handleBookRefresh(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := sess.Controller.LoadInitial(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn("refresh failed: %v", err)
	}

	writeJSON(w, r, http.StatusOK, stateView{
		State:   sess.Controller.Snapshot(),
		Signals: sess.Signals.Drain(),
	})
}

type filterRequest struct {
	Value string `json:"value"`
}

// handleBookFilter applies a status filter. Unknown values change nothing;
// the response reports whether the filter took effect.
func (s *Server) handleBookFilter(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("malformed request body"))
		return
	}

	applied := sess.Controller.ApplyFilter(req.Value)

	writeJSON(w, r, http.StatusOK, struct {
		Applied bool              `json:"applied"`
		State   chapterlist.State `json:"state"`
		Signals Signals           `json:"signals"`
	}{
		Applied: applied,
		State:   sess.Controller.Snapshot(),
		Signals: sess.Signals.Drain(),
	})
}

type selectRequest struct {
	ChapterID string `json:"chapter_id"`
}

// handleBookSelect resolves a chapter tap into either a locked notice or a
// navigation intent.
func (s *Server) handleBookSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("malformed request body"))
		return
	}
	if req.ChapterID == "" {
		handleError(w, r, errors.NewValidationError("chapter_id", "cannot be empty"))
		return
	}

	known := sess.Controller.SelectChapter(req.ChapterID)
	if !known {
		handleError(w, r, errors.NewNotFoundError("chapter", req.ChapterID))
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"signals": sess.Signals.Drain(),
	})
}

// handleBookLeave discards the page session, matching navigation away in the
// mini-app. Idle sessions expire on their own when this call never arrives.
func (s *Server) handleBookLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	s.Sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}
