package constants

// Layouts for dates and times as stored and as typed on the command line.
const (
	DateFormat  = "2006-01-02" // due dates, anchors and "until" bounds
	TimeFormat  = "15:04"      // due times, 24-hour clock
	MonthFormat = "2006-01"    // report month selector
)
