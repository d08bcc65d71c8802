package stats

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// CalculateEndTime adds duration minutes to an HH:MM arrival time, wrapping
// past midnight. Unparseable input is returned unchanged.
func CalculateEndTime(arrival string, duration int) string {
	h, m, ok := parseClock(arrival)
	if !ok {
		return arrival
	}
	total := ((h*60+m+duration)%minutesPerDay + minutesPerDay) % minutesPerDay
	return formatClock(total)
}

// GenerateTimeSlots returns the HH:MM slots of one day starting at 00:00,
// interval minutes apart. A non-positive interval yields no slots.
func GenerateTimeSlots(interval int) []string {
	if interval <= 0 {
		return nil
	}
	slots := make([]string, 0, minutesPerDay/interval+1)
	for t := 0; t < minutesPerDay; t += interval {
		slots = append(slots, formatClock(t))
	}
	return slots
}

func parseClock(s string) (hour, minute int, ok bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(hs)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	// tolerate seconds: "18:30:00"
	ms, _, _ = strings.Cut(ms, ":")
	minute, err = strconv.Atoi(ms)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%s:%s", twoDigits(minutes/60), twoDigits(minutes%60))
}

func twoDigits(n int) string {
	return fmt.Sprintf("%02d", n)
}
