package models

// CalendarDay is one cell of the month grid. Date carries the zero-padded
// "YYYY-MM-DD" form used as the merge key against daily stats.
type CalendarDay struct {
	Day            int    `json:"day"`
	Date           string `json:"date"`
	IsToday        bool   `json:"is_today"`
	HasStudy       bool   `json:"has_study"`
	IntensityLevel int    `json:"intensity_level"`
}

// CalendarMonth is the generated grid for a single month. Days holds only the
// month's own days; FirstDayWeekday (0=Sunday..6=Saturday) lets the
// presentation layer pad the leading row.
type CalendarMonth struct {
	Year            int           `json:"year"`
	Month           int           `json:"month"`
	FirstDayWeekday int           `json:"first_day_weekday"`
	Days            []CalendarDay `json:"days"`
}
