package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hanlin/lexibook/internal/durationfmt"
	"github.com/hanlin/lexibook/internal/errors"
	"github.com/hanlin/lexibook/internal/logger"
	"github.com/hanlin/lexibook/internal/models"
)

// Client talks to the remote data service that owns all book, chapter and
// study data. The pages never invent data; they reshape what this client
// returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("upstream"),
	}
}

// chapterEnvelope is the code-style envelope used by the book endpoints:
// code == 0 means success, anything else carries a message.
type chapterEnvelope struct {
	Code    int                `json:"code"`
	Message string             `json:"message"`
	Data    chapterPagePayload `json:"data"`
}

// Wire DTOs. The remote data service speaks camelCase; our own serving
// surface stays snake_case, so the two shapes are kept apart and converted
// at the decode boundary.
type chapterPagePayload struct {
	BookInfo        *bookPayload          `json:"bookInfo"`
	Chapters        []chapterPayload      `json:"chapters"`
	FilterOptions   []filterOptionPayload `json:"filterOptions"`
	HasMoreChapters bool                  `json:"hasMoreChapters"`
}

type bookPayload struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	CoverURL             string `json:"coverUrl"`
	TotalDurationSeconds int    `json:"totalDurationSeconds"`
	TotalChapters        int    `json:"totalChapters"`
	FinishedChapters     int    `json:"finishedChapters"`
}

type chapterPayload struct {
	ID              string `json:"id"`
	BookID          string `json:"bookId"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	DurationSeconds int    `json:"durationSeconds"`
}

type filterOptionPayload struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type studyStatsPayload struct {
	NewWordsCount     int `json:"newWordsCount"`
	ReviewWordsCount  int `json:"reviewWordsCount"`
	OverdueWordsCount int `json:"overdueWordsCount"`
}

// toModel converts the wire page into the domain page, deriving the display
// durations next to the raw second counts. Books round to hours/minutes,
// chapters to minutes/seconds.
func (p chapterPagePayload) toModel() *models.ChapterPage {
	page := &models.ChapterPage{
		Chapters:      make([]models.Chapter, 0, len(p.Chapters)),
		FilterOptions: make([]models.FilterOption, 0, len(p.FilterOptions)),
		HasMore:       p.HasMoreChapters,
	}
	if p.BookInfo != nil {
		page.Book = &models.Book{
			ID:                   p.BookInfo.ID,
			Title:                p.BookInfo.Title,
			CoverURL:             p.BookInfo.CoverURL,
			TotalDurationSeconds: p.BookInfo.TotalDurationSeconds,
			TotalDurationText:    durationfmt.HoursMinutes(p.BookInfo.TotalDurationSeconds),
			TotalChapters:        p.BookInfo.TotalChapters,
			FinishedChapters:     p.BookInfo.FinishedChapters,
		}
	}
	for _, ch := range p.Chapters {
		page.Chapters = append(page.Chapters, models.Chapter{
			ID:              ch.ID,
			BookID:          ch.BookID,
			Title:           ch.Title,
			Status:          ch.Status,
			DurationSeconds: ch.DurationSeconds,
			DurationText:    durationfmt.MinutesSeconds(ch.DurationSeconds),
		})
	}
	for _, opt := range p.FilterOptions {
		page.FilterOptions = append(page.FilterOptions, models.FilterOption{
			Value: opt.Value,
			Label: opt.Label,
		})
	}
	return page
}

// actionEnvelope is the success-style envelope used by the study endpoints.
type actionEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type actionRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

func (c *Client) FetchChapterPage(ctx context.Context, bookID string, page, pageSize int) (*models.ChapterPage, error) {
	log := logger.FromContext(ctx).WithPrefix("upstream").WithField("book_id", bookID)
	url := fmt.Sprintf("%s/v1/books/%s/chapters?page=%d&page_size=%d", c.baseURL, bookID, page, pageSize)

	log.Debug("fetching chapter page: page=%d, page_size=%d", page, pageSize)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, errors.NewInternalError(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch chapter page: %v", err)
		return nil, errors.NewUnavailableError(err)
	}
	defer resp.Body.Close()

	log.Debug("chapter page response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("chapter page request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, errors.NewUnavailableError(fmt.Errorf("chapter page status %d: %s", resp.StatusCode, string(body)))
	}

	var out chapterEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode chapter page response: %v", err)
		return nil, errors.NewUpstreamError("malformed chapter page response")
	}
	if out.Code != 0 {
		log.Warn("chapter page rejected by service: code=%d, message=%s", out.Code, out.Message)
		return nil, errors.NewUpstreamError(out.Message)
	}

	pageData := out.Data.toModel()

	log.Info("fetched %d chapters for book %s (page %d, has_more=%v)", len(pageData.Chapters), bookID, page, pageData.HasMore)
	return pageData, nil
}

func (c *Client) FetchStudyStats(ctx context.Context) (*models.StudyStats, error) {
	log := logger.FromContext(ctx).WithPrefix("upstream")
	log.Debug("fetching study stats")

	data, err := c.callAction(ctx, actionRequest{Action: "getStudyStats"})
	if err != nil {
		return nil, err
	}

	var payload studyStatsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Error("failed to decode study stats: %v", err)
		return nil, errors.NewUpstreamError("malformed study stats response")
	}
	stats := models.StudyStats{
		NewWordsCount:     payload.NewWordsCount,
		ReviewWordsCount:  payload.ReviewWordsCount,
		OverdueWordsCount: payload.OverdueWordsCount,
	}

	log.Info("fetched study stats: new=%d, review=%d, overdue=%d",
		stats.NewWordsCount, stats.ReviewWordsCount, stats.OverdueWordsCount)
	return &stats, nil
}

func (c *Client) FetchDailyStats(ctx context.Context, startDate, endDate string) ([]models.DailyStat, error) {
	log := logger.FromContext(ctx).WithPrefix("upstream").WithFields(map[string]any{
		"start_date": startDate,
		"end_date":   endDate,
	})
	log.Debug("fetching daily stats")

	data, err := c.callAction(ctx, actionRequest{
		Action: "getDailyStats",
		Params: map[string]any{"startDate": startDate, "endDate": endDate},
	})
	if err != nil {
		return nil, err
	}

	var stats []models.DailyStat
	if err := json.Unmarshal(data, &stats); err != nil {
		log.Error("failed to decode daily stats: %v", err)
		return nil, errors.NewUpstreamError("malformed daily stats response")
	}

	log.Info("fetched %d daily stat rows", len(stats))
	return stats, nil
}

// callAction posts an action-style request to the study endpoint and unwraps
// the success envelope.
func (c *Client) callAction(ctx context.Context, reqBody actionRequest) (json.RawMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("upstream").WithField("action", reqBody.Action)
	url := c.baseURL + "/v1/study"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("action call failed: %v", err)
		return nil, errors.NewUnavailableError(err)
	}
	defer resp.Body.Close()

	log.Debug("action response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("action request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, errors.NewUnavailableError(fmt.Errorf("%s status %d: %s", reqBody.Action, resp.StatusCode, string(body)))
	}

	var out actionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode action response: %v", err)
		return nil, errors.NewUpstreamError("malformed response for " + reqBody.Action)
	}
	if !out.Success {
		log.Warn("action rejected by service: message=%s", out.Message)
		return nil, errors.NewUpstreamError(out.Message)
	}
	return out.Data, nil
}
