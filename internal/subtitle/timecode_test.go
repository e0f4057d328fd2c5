package subtitle

import (
	"errors"
	"math"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00:01,000", 1},
		{"00:00:01.500", 1.5},
		{"1:02:03.25", 3723.25},
		{"01:30.00", 90},
		{" 00:00:02,5 ", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error: %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	for _, in := range []string{"", "12", "aa:bb:cc", "1:2:3:4", "00:xx.00"} {
		_, err := ParseTimestamp(in)
		if !errors.Is(err, ErrMalformedTimestamp) {
			t.Errorf("ParseTimestamp(%q) error = %v, want ErrMalformedTimestamp", in, err)
		}
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 1.5, 59.99, 61.25, 3723.25, 35999.99} {
		text := FormatTimestamp(seconds, ":", ".")
		got, err := ParseTimestamp(text)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) error: %v", text, err)
		}
		if math.Abs(got-seconds) > 0.005 {
			t.Errorf("round trip of %v via %q gave %v", seconds, text, got)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp(3723.25, ":", "."); got != "1:02:03.25" {
		t.Errorf("got %q", got)
	}
	if got := FormatTimestamp(1.5, ":", ","); got != "0:00:01,50" {
		t.Errorf("got %q", got)
	}
	if got := FormatTimestamp(Unbounded, ":", "."); got != "99:59:59.99" {
		t.Errorf("unbounded rendered as %q", got)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end float64
	}{
		{"00:00:01,000 --> 00:00:02,000", 1, 2},
		{"00:00:01.000 --> 00:00:02.000 align:start position:10%", 1, 2},
		{"0:00:01.00=>0:00:03.50", 1, 3.5},
		{"0:00:01.000,0:00:04.000", 1, 4},
	}

	for _, tt := range tests {
		start, end, err := ParseRange(tt.in)
		if err != nil {
			t.Fatalf("ParseRange(%q) error: %v", tt.in, err)
		}
		if start != tt.start || end != tt.end {
			t.Errorf("ParseRange(%q) = %v, %v; want %v, %v", tt.in, start, end, tt.start, tt.end)
		}
	}

	if _, _, err := ParseRange("no range here"); !errors.Is(err, ErrMalformedTimestamp) {
		t.Errorf("expected ErrMalformedTimestamp, got %v", err)
	}
}

func TestClockFormatters(t *testing.T) {
	if got := formatClock(3661.042, ","); got != "01:01:01,042" {
		t.Errorf("formatClock = %q", got)
	}
	if got := formatClock(0.5, "."); got != "00:00:00.500" {
		t.Errorf("formatClock = %q", got)
	}
	if got := formatLyricClock(83.45); got != "01:23.45" {
		t.Errorf("formatLyricClock = %q", got)
	}
}

func TestParseMediaTime(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00:01.500", 1.5},
		{"1.5s", 1.5},
		{"200ms", 0.2},
		{"2m", 120},
		{"1h", 3600},
		{"3", 3},
	}
	for _, tt := range tests {
		got, err := parseMediaTime(tt.in)
		if err != nil {
			t.Fatalf("parseMediaTime(%q) error: %v", tt.in, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseMediaTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
