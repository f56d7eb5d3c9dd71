package table

import (
	"fmt"
	"strings"
	"time"
)

// CurrentDate formats now as MM/DD/YY.
// The year is year-2000, so dates from 2100 on come out with three digits.
func CurrentDate(now time.Time) string {
	return fmt.Sprintf("%02d/%02d/%02d", int(now.Month()), now.Day(), now.Year()-2000)
}

// FormatTime turns "H:MM AM" or "HH:MM PM" into "HH:MM:00 AM/PM".
// Input must have exactly one space before the suffix; nothing is validated.
func FormatTime(raw string) string {
	clock, suffix, _ := strings.Cut(raw, " ")
	if len(clock) == 4 {
		clock = "0" + clock
	}
	return fmt.Sprintf("%s:00 %s", clock, suffix)
}
