package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// converts H:MM:SS.fff, H:MM:SS,fff or MM:SS.fff into seconds
func ParseTimestamp(text string) (float64, error) {
	fields := strings.Split(strings.TrimSpace(text), ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}

	last := len(fields) - 1
	fields[last] = strings.Replace(fields[last], ",", ".", 1)

	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
		}
		values[i] = v
	}

	if len(values) == 2 {
		return values[0]*60 + values[1], nil
	}
	return values[0]*3600 + values[1]*60 + values[2], nil
}

// renders seconds as H:MM:SS.ff with the given separators
func FormatTimestamp(seconds float64, fieldSep, fracSep string) string {
	cs := centiseconds(seconds)
	hours := cs / 360000
	minutes := (cs % 360000) / 6000
	secs := float64(cs%6000) / 100

	text := fmt.Sprintf("%d%s%02d%s%05.2f", hours, fieldSep, minutes, fieldSep, secs)
	if fracSep != "." {
		text = strings.Replace(text, ".", fracSep, 1)
	}
	return text
}

// splits a range line on =>, --> or a comma, in that order
func ParseRange(text string) (float64, float64, error) {
	var parts []string
	switch {
	case strings.Contains(text, "=>"):
		parts = strings.SplitN(text, "=>", 2)
	case strings.Contains(text, "-->"):
		parts = strings.SplitN(text, "-->", 2)
	default:
		parts = strings.SplitN(text, ",", 2)
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: no range delimiter in %q", ErrMalformedTimestamp, text)
	}

	start, err := ParseTimestamp(firstToken(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("range start: %w", err)
	}
	end, err := ParseTimestamp(firstToken(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("range end: %w", err)
	}
	return start, end, nil
}

// webvtt puts cue settings after the end time
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// largest value the clock formatters print; unbounded ends are clamped to it
const maxClockSeconds = 99*3600 + 59*60 + 59.99

func centiseconds(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds < 0 {
		return 0
	}
	if seconds > maxClockSeconds {
		seconds = maxClockSeconds
	}
	return int64(math.Round(seconds * 100))
}

func milliseconds(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds < 0 {
		return 0
	}
	if seconds > maxClockSeconds {
		seconds = maxClockSeconds
	}
	return int64(math.Round(seconds * 1000))
}

// HH:MM:SS<sep>mmm as used by srt and webvtt
func formatClock(seconds float64, fracSep string) string {
	ms := milliseconds(seconds)
	return fmt.Sprintf("%02d:%02d:%02d%s%03d",
		ms/3600000, (ms%3600000)/60000, (ms%60000)/1000, fracSep, ms%1000)
}

// mm:ss.xx as used by lrc, minutes are not wrapped into hours
func formatLyricClock(seconds float64) string {
	cs := centiseconds(seconds)
	return fmt.Sprintf("%02d:%02d.%02d", cs/6000, (cs%6000)/100, cs%100)
}

// ttml and itt attributes allow clock time or offset time (1.5s, 200ms, 2m, 1h)
func parseMediaTime(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ":") {
		return ParseTimestamp(value)
	}

	units := []struct {
		suffix string
		scale  float64
	}{
		{"ms", 0.001},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}
	for _, u := range units {
		if strings.HasSuffix(value, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(value, u.suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
			}
			return v * u.scale, nil
		}
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
	}
	return v, nil
}
