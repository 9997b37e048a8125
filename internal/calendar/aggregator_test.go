package calendar_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hanlin/lexibook/internal/calendar"
	"github.com/hanlin/lexibook/internal/models"
	"github.com/hanlin/lexibook/internal/testutil/mocks"
)

func TestGenerateMonth_ThirtyDayMonth(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	grid, err := calendar.GenerateMonth(2025, 6, today)
	require.NoError(t, err)

	require.Len(t, grid.Days, 30)
	todayCount := 0
	for i, day := range grid.Days {
		assert.Equal(t, i+1, day.Day, "days run 1..30 in order")
		assert.Equal(t, fmt.Sprintf("2025-06-%02d", i+1), day.Date)
		assert.False(t, day.HasStudy)
		assert.Equal(t, 0, day.IntensityLevel)
		if day.IsToday {
			todayCount++
			assert.Equal(t, 15, day.Day)
		}
	}
	assert.Equal(t, 1, todayCount, "exactly one today inside the clock's month")

	// 2025-06-01 was a Sunday.
	assert.Equal(t, 0, grid.FirstDayWeekday)
}

func TestGenerateMonth_ClockOutsideMonth(t *testing.T) {
	today := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	grid, err := calendar.GenerateMonth(2025, 6, today)
	require.NoError(t, err)

	for _, day := range grid.Days {
		assert.False(t, day.IsToday)
	}
}

func TestGenerateMonth_FebruaryLeap(t *testing.T) {
	grid, err := calendar.GenerateMonth(2024, 2, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, grid.Days, 29)
	assert.True(t, grid.Days[28].IsToday)
}

func TestGenerateMonth_InvalidMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		_, err := calendar.GenerateMonth(2025, month, time.Now())
		assert.Error(t, err, "month %d must be rejected", month)
	}
}

func TestClassifyIntensity_Boundaries(t *testing.T) {
	tests := []struct {
		activity int
		level    int
	}{
		{activity: 0, level: 0},
		{activity: 1, level: 1},
		{activity: 2, level: 1},
		{activity: 3, level: 2},
		{activity: 5, level: 2},
		{activity: 6, level: 3},
		{activity: 10, level: 3},
		{activity: 11, level: 4},
		{activity: 100, level: 4},
		{activity: -3, level: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("activity_%d", tt.activity), func(t *testing.T) {
			assert.Equal(t, tt.level, calendar.ClassifyIntensity(tt.activity))
		})
	}
}

func TestAnnotateWithStats(t *testing.T) {
	grid, err := calendar.GenerateMonth(2025, 6, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	stats := []models.DailyStat{
		{Date: "2025-06-03", LearnedCount: 1, ReviewedCount: 1},  // level 1
		{Date: "2025-06-10", LearnedCount: 4, ReviewedCount: 1},  // level 2
		{Date: "2025-06-21", LearnedCount: 10, ReviewedCount: 5}, // level 4
		{Date: "2025-07-01", LearnedCount: 3, ReviewedCount: 0},  // outside month, ignored
	}

	calendar.AnnotateWithStats(grid.Days, stats)

	require.Len(t, grid.Days, 30, "annotation must not resize the grid")
	assert.Equal(t, 1, grid.Days[2].IntensityLevel)
	assert.True(t, grid.Days[2].HasStudy)
	assert.Equal(t, 2, grid.Days[9].IntensityLevel)
	assert.Equal(t, 4, grid.Days[20].IntensityLevel)

	// Days absent from the stats keep their defaults.
	assert.False(t, grid.Days[0].HasStudy)
	assert.Equal(t, 0, grid.Days[0].IntensityLevel)
}

func TestAnnotateWithStats_Idempotent(t *testing.T) {
	grid, err := calendar.GenerateMonth(2025, 6, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	stats := []models.DailyStat{
		{Date: "2025-06-05", LearnedCount: 2, ReviewedCount: 2},
		{Date: "2025-06-06", LearnedCount: 7, ReviewedCount: 4},
	}

	calendar.AnnotateWithStats(grid.Days, stats)
	once := append([]models.CalendarDay(nil), grid.Days...)

	calendar.AnnotateWithStats(grid.Days, stats)
	assert.Equal(t, once, grid.Days, "reapplying identical stats must not change the grid")
}

func TestLoadMonth_AnnotatesFromRemote(t *testing.T) {
	client := &mocks.MockUpstreamClient{}
	client.On("FetchDailyStats", mock.Anything, "2025-06-01", "2025-06-30").Return([]models.DailyStat{
		{Date: "2025-06-02", LearnedCount: 3, ReviewedCount: 4},
	}, nil)

	now := func() time.Time { return time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC) }
	agg := calendar.NewAggregator(client, nil, now)

	grid, err := agg.LoadMonth(context.Background(), 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, 3, grid.Days[1].IntensityLevel)
	assert.True(t, grid.Days[1].HasStudy)
	assert.True(t, grid.Days[1].IsToday)
}

func TestLoadMonth_SoftFailOnStatsError(t *testing.T) {
	client := &mocks.MockUpstreamClient{}
	client.On("FetchDailyStats", mock.Anything, "2025-06-01", "2025-06-30").Return(nil, fmt.Errorf("timeout"))

	now := func() time.Time { return time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC) }
	agg := calendar.NewAggregator(client, nil, now)

	grid, err := agg.LoadMonth(context.Background(), 2025, 6)
	require.NoError(t, err, "stats failure must not surface")

	require.Len(t, grid.Days, 30)
	for _, day := range grid.Days {
		assert.False(t, day.HasStudy)
		assert.Equal(t, 0, day.IntensityLevel)
	}
}

func TestLoadMonth_InvalidMonthRejected(t *testing.T) {
	client := &mocks.MockUpstreamClient{}
	agg := calendar.NewAggregator(client, nil, nil)

	_, err := agg.LoadMonth(context.Background(), 2025, 13)
	assert.Error(t, err)
	client.AssertNotCalled(t, "FetchDailyStats", mock.Anything, mock.Anything, mock.Anything)
}
