package clock

import (
	"strconv"
	"strings"
)

// ReadableDuration renders seconds as "1 d 2 h 3 m 4 s", leaving out
// leading units that are zero. Seconds are always shown.
func ReadableDuration(secs int64) string {
	days := secs / 86400
	secs -= days * 86400
	hours := secs / 3600
	secs -= hours * 3600
	mins := secs / 60
	secs -= mins * 60

	var b strings.Builder
	if days > 0 {
		b.WriteString(strconv.FormatInt(days, 10) + " d ")
	}
	if hours > 0 {
		b.WriteString(strconv.FormatInt(hours, 10) + " h ")
	}
	if mins > 0 {
		b.WriteString(strconv.FormatInt(mins, 10) + " m ")
	}
	b.WriteString(strconv.FormatInt(secs, 10) + " s")
	return b.String()
}

// SplitField returns the index-th element of data split on sep, or "" if
// there are not that many elements.
func SplitField(data string, sep byte, index int) string {
	if index < 0 || data == "" {
		return ""
	}
	parts := strings.Split(data, string(sep))
	if index >= len(parts) {
		return ""
	}
	return parts[index]
}

// SplitInt is SplitField followed by a lenient integer parse: anything
// that does not parse yields 0.
func SplitInt(data string, sep byte, index int) int {
	n, err := strconv.Atoi(strings.TrimSpace(SplitField(data, sep, index)))
	if err != nil {
		return 0
	}
	return n
}
