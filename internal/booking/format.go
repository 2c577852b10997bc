package booking

import "time"

// Layouts for appointment times shown to customers.
const (
	DateLayout = "Monday, January 2, 2006"
	TimeLayout = "3:04 PM"
)

// FormatAppointment renders t as date and time strings in loc.
func FormatAppointment(t time.Time, loc *time.Location) (date, clock string) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return local.Format(DateLayout), local.Format(TimeLayout)
}
