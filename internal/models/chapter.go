package models

// Chapter status values as delivered by the remote data service.
const (
	ChapterStatusLocked   = "locked"
	ChapterStatusUnlocked = "unlocked"
)

// FilterAll is the identity filter value matching every chapter.
const FilterAll = "all"

type Chapter struct {
	ID              string `json:"id"`
	BookID          string `json:"book_id"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	DurationSeconds int    `json:"duration_seconds"`
	// DurationText is derived from DurationSeconds at fetch time; the raw
	// seconds field is kept alongside it.
	DurationText string `json:"duration_text"`
}

// Locked reports whether selecting the chapter should be blocked.
func (c Chapter) Locked() bool {
	return c.Status == ChapterStatusLocked
}

type Book struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	CoverURL             string `json:"cover_url"`
	TotalDurationSeconds int    `json:"total_duration_seconds"`
	TotalDurationText    string `json:"total_duration_text"`
	TotalChapters        int    `json:"total_chapters"`
	FinishedChapters     int    `json:"finished_chapters"`
}

type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ChapterPage is one server-fetched batch of chapters, identified by a
// 1-based page index.
type ChapterPage struct {
	Book          *Book          `json:"book_info"`
	Chapters      []Chapter      `json:"chapters"`
	FilterOptions []FilterOption `json:"filter_options"`
	HasMore       bool           `json:"has_more_chapters"`
}

// NavigationIntent is emitted when an unlocked chapter is selected.
type NavigationIntent struct {
	ChapterID string `json:"chapter_id"`
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
}
