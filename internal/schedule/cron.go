package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// CronToHuman renders a standard five-field cron expression as a short
// English phrase for the dashboard. Expressions it cannot describe come
// back verbatim.
func CronToHuman(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return expr
	}
	min, hour, dom, mon, dow := fields[0], fields[1], fields[2], fields[3], fields[4]

	m, errM := strconv.Atoi(min)
	h, errH := strconv.Atoi(hour)
	if errM != nil || errH != nil {
		return expr
	}
	at := fmt.Sprintf("%02d:%02d", h, m)

	switch {
	case dom == "*" && mon == "*" && dow == "*":
		return "daily at " + at
	case dom == "*" && mon == "*":
		if names, ok := weekdayNames(dow); ok {
			return fmt.Sprintf("every %s at %s", names, at)
		}
	case mon == "*" && dow == "*":
		if d, err := strconv.Atoi(dom); err == nil {
			return fmt.Sprintf("monthly on day %d at %s", d, at)
		}
	}
	return expr
}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func weekdayNames(dow string) (string, bool) {
	var names []string
	for _, part := range strings.Split(dow, ",") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return "", false
		}
		names = append(names, weekdays[n])
	}
	return strings.Join(names, ", "), true
}

// NextRun computes the next firing time of a standard cron expression in
// the given IANA zone, from the reference time. Unparseable expressions or
// zones return the zero time.
func NextRun(expr, timezone string, from time.Time) time.Time {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return sched.Next(from.In(loc))
}
