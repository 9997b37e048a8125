package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hanlin/lexibook/internal/errors"
	"github.com/hanlin/lexibook/internal/upstream"
)

func TestFetchChapterPage_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/books/book_1/chapters", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("page_size"))

		// The wire format is the service's camelCase, not our snake_case.
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"bookInfo": map[string]any{
					"id":                   "book_1",
					"title":                "Everyday Mandarin",
					"totalDurationSeconds": 3661,
				},
				"chapters": []map[string]any{
					{"id": "ch_001", "bookId": "book_1", "title": "Greetings", "status": "unlocked", "durationSeconds": 65},
					{"id": "ch_002", "bookId": "book_1", "title": "Numbers", "status": "locked", "durationSeconds": 0},
				},
				"filterOptions": []map[string]any{
					{"value": "all", "label": "全部"},
					{"value": "unlocked", "label": "可学习"},
				},
				"hasMoreChapters": true,
			},
		})
	}))
	defer ts.Close()

	client := upstream.New(ts.URL, 5*time.Second)
	page, err := client.FetchChapterPage(context.Background(), "book_1", 2, 20)
	require.NoError(t, err)

	require.NotNil(t, page.Book, "bookInfo must survive the decode")
	assert.Equal(t, "Everyday Mandarin", page.Book.Title)
	assert.Equal(t, "1小时1分钟", page.Book.TotalDurationText, "book durations round to hours/minutes")
	require.Len(t, page.Chapters, 2)
	assert.Equal(t, "1分钟5秒", page.Chapters[0].DurationText, "chapter durations round to minutes/seconds")
	assert.Equal(t, "0秒", page.Chapters[1].DurationText)
	assert.Equal(t, 65, page.Chapters[0].DurationSeconds, "raw seconds are preserved next to the derived text")
	require.Len(t, page.FilterOptions, 2, "filterOptions must survive the decode")
	assert.Equal(t, "unlocked", page.FilterOptions[1].Value)
	assert.True(t, page.HasMore, "hasMoreChapters drives pagination and must survive the decode")
}

func TestFetchChapterPage_ApplicationFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 40401, "message": "book not found"})
	}))
	defer ts.Close()

	client := upstream.New(ts.URL, 5*time.Second)
	_, err := client.FetchChapterPage(context.Background(), "missing", 1, 20)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
	assert.Contains(t, appErr.Message, "book not found")
}

func TestFetchChapterPage_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := upstream.New(ts.URL, 5*time.Second)
	_, err := client.FetchChapterPage(context.Background(), "book_1", 1, 20)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUnavailable, appErr.Code)
}

func TestFetchStudyStats_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/study", r.URL.Path)

		var req struct {
			Action string `json:"action"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getStudyStats", req.Action)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"newWordsCount":     8,
				"reviewWordsCount":  21,
				"overdueWordsCount": 2,
			},
		})
	}))
	defer ts.Close()

	client := upstream.New(ts.URL, 5*time.Second)
	stats, err := client.FetchStudyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.NewWordsCount)
	assert.Equal(t, 21, stats.ReviewWordsCount)
	assert.Equal(t, 2, stats.OverdueWordsCount)
}

func TestFetchDailyStats_SendsRangeAndDecodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action string         `json:"action"`
			Params map[string]any `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getDailyStats", req.Action)
		assert.Equal(t, "2025-06-01", req.Params["startDate"])
		assert.Equal(t, "2025-06-30", req.Params["endDate"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"date": "2025-06-03", "learned_count": 4, "reviewed_count": 2},
			},
		})
	}))
	defer ts.Close()

	client := upstream.New(ts.URL, 5*time.Second)
	stats, err := client.FetchDailyStats(context.Background(), "2025-06-01", "2025-06-30")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "2025-06-03", stats[0].Date)
	assert.Equal(t, 6, stats[0].TotalActivity())
}

func TestFetchDailyStats_ServiceFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "stats unavailable"})
	}))
	defer ts.Close()

	client := upstream.New(ts.URL, 5*time.Second)
	_, err := client.FetchDailyStats(context.Background(), "2025-06-01", "2025-06-30")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
}
