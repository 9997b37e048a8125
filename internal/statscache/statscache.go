package statscache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hanlin/lexibook/internal/logger"
	"github.com/hanlin/lexibook/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store is a local cache of fetched daily study stats. It exists for one
// reason: when the daily-stats fetch fails, the calendar can still shade the
// grid from the last data it saw instead of rendering it blank.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

func Open(path string) (*Store, error) {
	log := logger.Default().WithPrefix("statscache")

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening stats cache: %s", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open stats cache: %v", err)
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite best practice for single writer

	s := &Store{db: db, log: log}
	if err := s.init(context.Background()); err != nil {
		log.Error("failed to initialize stats cache schema: %v", err)
		db.Close()
		return nil, err
	}

	log.Info("stats cache ready")
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS daily_stats (
    date           TEXT PRIMARY KEY,
    learned_count  INTEGER NOT NULL,
    reviewed_count INTEGER NOT NULL,
    fetched_at     DATETIME DEFAULT CURRENT_TIMESTAMP
)`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts a batch of daily stats. The date is the key; a refetch of the
// same day overwrites the previous counters.
func (s *Store) Put(ctx context.Context, stats []models.DailyStat) error {
	if len(stats) == 0 {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("statscache")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stat := range stats {
		query, args, err := sqlBuilder.
			Insert("daily_stats").
			Columns("date", "learned_count", "reviewed_count").
			Values(stat.Date, stat.LearnedCount, stat.ReviewedCount).
			Suffix("ON CONFLICT(date) DO UPDATE SET learned_count=excluded.learned_count, reviewed_count=excluded.reviewed_count, fetched_at=CURRENT_TIMESTAMP").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to upsert daily stat %s: %v", stat.Date, err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("cached %d daily stat rows", len(stats))
	return nil
}

// Range returns the cached stats within the inclusive [start, end] date
// range, ordered by date.
func (s *Store) Range(ctx context.Context, start, end string) ([]models.DailyStat, error) {
	log := logger.FromContext(ctx).WithPrefix("statscache")

	query, args, err := sqlBuilder.
		Select("date", "learned_count", "reviewed_count").
		From("daily_stats").
		Where(squirrel.GtOrEq{"date": start}).
		Where(squirrel.LtOrEq{"date": end}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cached stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.DailyStat
	for rows.Next() {
		var stat models.DailyStat
		if err := rows.Scan(&stat.Date, &stat.LearnedCount, &stat.ReviewedCount); err != nil {
			log.Error("failed to scan cached stat row: %v", err)
			return nil, err
		}
		stats = append(stats, stat)
	}
	log.Debug("found %d cached stat rows in %s..%s", len(stats), start, end)
	return stats, rows.Err()
}
