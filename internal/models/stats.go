package models

// StudyStats is the dashboard headline: word counts for today's session.
type StudyStats struct {
	NewWordsCount     int `json:"new_words_count"`
	ReviewWordsCount  int `json:"review_words_count"`
	OverdueWordsCount int `json:"overdue_words_count"`
}

// DailyStat is one day's raw activity counters from the remote data service.
type DailyStat struct {
	Date          string `json:"date"`
	LearnedCount  int    `json:"learned_count"`
	ReviewedCount int    `json:"reviewed_count"`
}

// TotalActivity is the combined learn+review count used for intensity
// classification.
func (d DailyStat) TotalActivity() int {
	return d.LearnedCount + d.ReviewedCount
}
