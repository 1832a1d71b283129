package scheduling

import (
	"time"

	"github.com/clinicdesk/booking-api/internal/httperr"
)

// RecurringTemplate is one weekly repeating window: the same time-of-day
// block on a set of weekdays.
type RecurringTemplate struct {
	StartTime string         `json:"start_time"` // HH:MM
	EndTime   string         `json:"end_time"`   // HH:MM
	Weekdays  []time.Weekday `json:"weekdays"`   // 0=Sunday ... 6=Saturday
}

// ExpansionResult reports how a batch expansion went. A skipped slot is
// one that overlapped something already on the calendar.
type ExpansionResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

func parseClock(hm string) (hour, min int, err error) {
	t, perr := time.Parse("15:04", hm)
	if perr != nil {
		return 0, 0, httperr.ErrBusiness("invalid_time_of_day")
	}
	return t.Hour(), t.Minute(), nil
}

// Validate rejects malformed templates before any day iteration starts.
func (t RecurringTemplate) Validate() error {
	sh, sm, err := parseClock(t.StartTime)
	if err != nil {
		return err
	}
	eh, em, err := parseClock(t.EndTime)
	if err != nil {
		return err
	}
	if eh*60+em <= sh*60+sm {
		return httperr.ErrBusiness("invalid_time_range")
	}
	if len(t.Weekdays) == 0 {
		return httperr.ErrBusiness("missing_weekdays")
	}
	for _, wd := range t.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return httperr.ErrBusiness("invalid_weekday")
		}
	}
	return nil
}

// AppliesTo reports whether the template fires on the given weekday.
func (t RecurringTemplate) AppliesTo(day time.Weekday) bool {
	for _, wd := range t.Weekdays {
		if wd == day {
			return true
		}
	}
	return false
}

// WindowOn anchors the template's time-of-day block to a concrete day in
// the given location.
func (t RecurringTemplate) WindowOn(day time.Time, loc *time.Location) (start, end time.Time) {
	sh, sm, _ := parseClock(t.StartTime)
	eh, em, _ := parseClock(t.EndTime)

	start = time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, loc)
	end = time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, loc)
	return start, end
}
