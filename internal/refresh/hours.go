package refresh

import "time"

var exchangeTZ = mustLoadLocation("Asia/Shanghai")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// isTradingTime reports whether t falls inside the exchange's
// continuous trading sessions: 09:30-11:30 and 13:00-15:00, weekdays.
func isTradingTime(t time.Time) bool {
	local := t.In(exchangeTZ)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minutes := local.Hour()*60 + local.Minute()
	morning := minutes >= 9*60+30 && minutes <= 11*60+30
	afternoon := minutes >= 13*60 && minutes <= 15*60
	return morning || afternoon
}
