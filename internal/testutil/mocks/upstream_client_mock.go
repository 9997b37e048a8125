package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hanlin/lexibook/internal/models"
)

// MockUpstreamClient is a mock implementation of upstream.ClientInterface
type MockUpstreamClient struct {
	mock.Mock
}

func (m *MockUpstreamClient) FetchChapterPage(ctx context.Context, bookID string, page, pageSize int) (*models.ChapterPage, error) {
	args := m.Called(ctx, bookID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChapterPage), args.Error(1)
}

func (m *MockUpstreamClient) FetchStudyStats(ctx context.Context) (*models.StudyStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudyStats), args.Error(1)
}

func (m *MockUpstreamClient) FetchDailyStats(ctx context.Context, startDate, endDate string) ([]models.DailyStat, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyStat), args.Error(1)
}
