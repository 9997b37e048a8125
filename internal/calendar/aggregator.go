package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/hanlin/lexibook/internal/dateutil"
	"github.com/hanlin/lexibook/internal/logger"
	"github.com/hanlin/lexibook/internal/models"
	"github.com/hanlin/lexibook/internal/statscache"
	"github.com/hanlin/lexibook/internal/upstream"
)

// GenerateMonth builds the day grid for one month: exactly the month's own
// days, 1..daysInMonth, each zero-initialized (no study, intensity 0).
// IsToday is decided once here by string equality against the supplied clock
// value; callers pass a fixed "today" so the grid never flips mid-render.
func GenerateMonth(year, month int, today time.Time) (models.CalendarMonth, error) {
	if month < 1 || month > 12 {
		return models.CalendarMonth{}, fmt.Errorf("month %d out of range", month)
	}
	if year < 1 {
		return models.CalendarMonth{}, fmt.Errorf("year %d out of range", year)
	}

	todayKey := dateutil.FormatISODate(today)
	total := dateutil.DaysInMonth(year, month)
	days := make([]models.CalendarDay, 0, total)
	for d := 1; d <= total; d++ {
		date := dateutil.FormatDay(year, month, d)
		days = append(days, models.CalendarDay{
			Day:     d,
			Date:    date,
			IsToday: date == todayKey,
		})
	}

	return models.CalendarMonth{
		Year:            year,
		Month:           month,
		FirstDayWeekday: dateutil.WeekdayOfFirst(year, month),
		Days:            days,
	}, nil
}

// AnnotateWithStats merges daily activity counters into the day grid in
// place. Days present in stats get their intensity level and the study mark;
// days absent keep their zero defaults. The merge is idempotent and never
// resizes or reorders the slice.
func AnnotateWithStats(days []models.CalendarDay, stats []models.DailyStat) {
	if len(stats) == 0 {
		return
	}
	levels := make(map[string]int, len(stats))
	for _, s := range stats {
		levels[s.Date] = ClassifyIntensity(s.TotalActivity())
	}
	for i := range days {
		if level, ok := levels[days[i].Date]; ok {
			days[i].IntensityLevel = level
			days[i].HasStudy = true
		}
	}
}

// ClassifyIntensity buckets a day's combined learn+review count into the
// 0-4 shading scale used by the calendar.
func ClassifyIntensity(totalActivity int) int {
	switch {
	case totalActivity <= 0:
		return 0
	case totalActivity <= 2:
		return 1
	case totalActivity <= 5:
		return 2
	case totalActivity <= 10:
		return 3
	default:
		return 4
	}
}

// Aggregator builds shaded month grids from remote daily stats. The stats
// fetch is an enrichment load: when it fails the grid is still returned with
// zero shading, falling back to locally cached stats when available.
type Aggregator struct {
	client upstream.ClientInterface
	cache  *statscache.Store
	now    func() time.Time
	log    *logger.Logger
}

// NewAggregator creates an Aggregator. cache may be nil to disable the
// fallback; now may be nil to use the wall clock.
func NewAggregator(client upstream.ClientInterface, cache *statscache.Store, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		client: client,
		cache:  cache,
		now:    now,
		log:    logger.Default().WithPrefix("calendar"),
	}
}

// LoadMonth generates the grid for (year, month) and annotates it with daily
// stats for the month's inclusive date range. Stats failures degrade
// silently: the caller always gets a usable grid.
func (a *Aggregator) LoadMonth(ctx context.Context, year, month int) (models.CalendarMonth, error) {
	log := logger.FromContext(ctx).WithPrefix("calendar")

	grid, err := GenerateMonth(year, month, a.now())
	if err != nil {
		return models.CalendarMonth{}, err
	}

	start := dateutil.FormatDay(year, month, 1)
	end := dateutil.FormatDay(year, month, len(grid.Days))

	stats, err := a.client.FetchDailyStats(ctx, start, end)
	if err != nil {
		log.Warn("daily stats fetch failed, shading degraded: %v", err)
		stats = a.cachedStats(ctx, start, end)
	} else if a.cache != nil {
		if err := a.cache.Put(ctx, stats); err != nil {
			log.Warn("failed to cache daily stats: %v", err)
		}
	}

	AnnotateWithStats(grid.Days, stats)
	return grid, nil
}

// cachedStats returns the last fetched stats for the range, or nil when the
// cache is disabled or empty. Errors are logged, never surfaced; this path
// only runs when shading is already degraded.
func (a *Aggregator) cachedStats(ctx context.Context, start, end string) []models.DailyStat {
	if a.cache == nil {
		return nil
	}
	stats, err := a.cache.Range(ctx, start, end)
	if err != nil {
		a.log.Warn("stats cache read failed: %v", err)
		return nil
	}
	if len(stats) > 0 {
		a.log.Info("serving %d cached daily stat rows for %s..%s", len(stats), start, end)
	}
	return stats
}
