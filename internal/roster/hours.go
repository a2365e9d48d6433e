package roster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Night windows in minutes from the shift's start day: 00:00-06:00 and
// 22:00-06:00 of the following day.
var nightWindows = [][2]int{
	{0, 6 * 60},
	{22 * 60, minutesPerDay + 6*60},
}

// parseClock reads "HH:MM" or "H.MM" into minutes after midnight.
func parseClock(s string) (int, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ".", ":"))
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, false
	}
	if h == 24 && m != 0 {
		return 0, false
	}
	return h*60 + m, true
}

// NormalizeClock renders a clock value as zero-padded "HH:MM".
func NormalizeClock(s string) (string, bool) {
	minutes, ok := parseClock(s)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), true
}

// span returns the shift bounds in minutes, moving the end to the next day
// when it does not come after the start.
func span(start, end string) (int, int, bool) {
	s, ok := parseClock(start)
	if !ok {
		return 0, 0, false
	}
	e, ok := parseClock(end)
	if !ok {
		return 0, 0, false
	}
	if e <= s {
		e += minutesPerDay
	}
	return s, e, true
}

// ShiftHours returns the duration of a start/end pair, crossing midnight when
// needed.
func ShiftHours(start, end string) (float64, bool) {
	s, e, ok := span(start, end)
	if !ok {
		return 0, false
	}
	return round2(float64(e-s) / 60), true
}

// NocturnalHours returns how much of the shift falls in the night windows.
func NocturnalHours(start, end string) float64 {
	s, e, ok := span(start, end)
	if !ok {
		return 0
	}
	total := 0
	for _, w := range nightWindows {
		lo := max(s, w[0])
		hi := min(e, w[1])
		if hi > lo {
			total += hi - lo
		}
	}
	return round2(float64(total) / 60)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
