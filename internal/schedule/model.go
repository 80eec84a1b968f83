package schedule

// WeekDayInterval is a recurring availability window for one day of the week.
// WeekDay follows time.Weekday numbering: 0 = Sunday .. 6 = Saturday.
type WeekDayInterval struct {
	WeekDay            int `db:"week_day" json:"weekDay"`
	StartTimeInMinutes int `db:"start_time_in_minutes" json:"startTimeInMinutes"`
	EndTimeInMinutes   int `db:"end_time_in_minutes" json:"endTimeInMinutes"`
}

type ReplaceIntervalsRequest struct {
	Intervals []WeekDayInterval `json:"intervals" binding:"required"`
}
