package upstream

import (
	"context"

	"github.com/hanlin/lexibook/internal/models"
)

// ClientInterface defines the interface for remote data service operations.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchChapterPage(ctx context.Context, bookID string, page, pageSize int) (*models.ChapterPage, error)
	FetchStudyStats(ctx context.Context) (*models.StudyStats, error)
	FetchDailyStats(ctx context.Context, startDate, endDate string) ([]models.DailyStat, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
