package subtitle

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestShapeKeepsShortCues(t *testing.T) {
	got := Shape([]Cue{{Start: 1, End: 3, Lines: []string{"Hello", "there"}}}, DefaultShapeOptions())
	want := []Cue{{Start: 1, End: 3, Lines: []string{"Hello there"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Shape = %+v, want %+v", got, want)
	}
}

func TestShapeDropsBlankCues(t *testing.T) {
	got := Shape([]Cue{{Start: 0, End: 2, Lines: []string{"  "}}, {Start: 2, End: 4, Lines: nil}}, DefaultShapeOptions())
	if len(got) != 0 {
		t.Errorf("expected no cues, got %+v", got)
	}
}

func TestShapeWrapsLongLines(t *testing.T) {
	text := "This sentence is clearly longer than forty-two characters"
	got := Shape([]Cue{{Start: 0, End: 4, Lines: []string{text}}}, DefaultShapeOptions())
	if len(got) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(got))
	}
	if len(got[0].Lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", got[0].Lines)
	}
	if strings.Join(got[0].Lines, " ") != text {
		t.Errorf("wrapping changed the text: %q", got[0].Lines)
	}
	for _, line := range got[0].Lines {
		if utf8.RuneCountInString(line) > 42 {
			t.Errorf("line too long: %q", line)
		}
	}
}

func TestShapeSplitsLongCues(t *testing.T) {
	words := strings.Repeat("word ", 40)
	got := Shape([]Cue{{Start: 10, End: 30, Lines: []string{words}}}, DefaultShapeOptions())
	if len(got) < 3 {
		t.Fatalf("expected at least 3 cues, got %d", len(got))
	}
	if got[0].Start != 10 || got[len(got)-1].End != 30 {
		t.Errorf("split cues span %v..%v, want 10..30", got[0].Start, got[len(got)-1].End)
	}
	total := 0
	for i, c := range got {
		if c.End-c.Start > 7+1e-9 {
			t.Errorf("cue %d lasts %v", i, c.End-c.Start)
		}
		if len(c.Lines) > 2 {
			t.Errorf("cue %d has %d lines", i, len(c.Lines))
		}
		if i > 0 && math.Abs(got[i-1].End-c.Start) > 1e-9 {
			t.Errorf("cue %d does not start where cue %d ends", i, i-1)
		}
		for _, line := range c.Lines {
			total += len(strings.Fields(line))
		}
	}
	if total != 40 {
		t.Errorf("expected 40 words across cues, got %d", total)
	}
}

func TestShapeStretchesShortDurations(t *testing.T) {
	got := Shape([]Cue{
		{Start: 0, End: 0.2, Lines: []string{"a"}},
		{Start: 0.5, End: 0.6, Lines: []string{"b"}},
		{Start: 5, End: 5.1, Lines: []string{"c"}},
	}, DefaultShapeOptions())

	if got[0].End != 0.5 {
		t.Errorf("cue 0 end = %v, want 0.5 (next start)", got[0].End)
	}
	if math.Abs(got[1].End-1.5) > 1e-9 {
		t.Errorf("cue 1 end = %v, want 1.5", got[1].End)
	}
	if math.Abs(got[2].End-6) > 1e-9 {
		t.Errorf("cue 2 end = %v, want 6", got[2].End)
	}
}

func TestShapeUnboundedCue(t *testing.T) {
	got := Shape([]Cue{{Start: 3, End: Unbounded, Lines: []string{"forever"}}}, DefaultShapeOptions())
	if len(got) != 1 || !math.IsInf(got[0].End, 1) {
		t.Errorf("Shape = %+v, want one unbounded cue", got)
	}
}
