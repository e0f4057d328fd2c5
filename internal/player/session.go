package player

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mgpai22/subtity/internal/subtitle"
)

// presentation settings handed to the renderer
type Style struct {
	Family       string  `toml:"family"`
	Size         float64 `toml:"size"`
	LineSpacing  float64 `toml:"line_spacing"`
	Color        string  `toml:"color"`
	Align        string  `toml:"align"`
	Direction    string  `toml:"direction"`
	OutlineColor string  `toml:"outline_color"`
	OutlineSize  float64 `toml:"outline_size"`
	ShadowColor  string  `toml:"shadow_color"`
	ShadowBlur   float64 `toml:"shadow_blur"`
	ShadowX      float64 `toml:"shadow_x"`
	ShadowY      float64 `toml:"shadow_y"`
	Opacity      float64 `toml:"opacity"`
	Base         float64 `toml:"base"`
	Left         float64 `toml:"left"`
	Weight       string  `toml:"weight"`
	Background   string  `toml:"background"`

	// computed from Family and Size
	LineHeight float64 `toml:"-"`
}

func DefaultStyle() Style {
	return Style{
		Family:       "Arial",
		Size:         19,
		LineSpacing:  10,
		Color:        "rgb(255,255,255)",
		Align:        "center",
		Direction:    "ltr",
		OutlineColor: "rgb(0,0,0)",
		OutlineSize:  1,
		ShadowColor:  "rgba(0,0,0,0)",
		Opacity:      1,
		Base:         90,
		Left:         50,
	}
}

// keys accepted by Set, with the short aliases older configs used
var styleKeys = map[string]string{
	"family":       "family",
	"size":         "size",
	"linespacing":  "lineSpacing",
	"color":        "color",
	"align":        "align",
	"direction":    "direction",
	"outlinecolor": "outlineColor",
	"outlinesize":  "outlineSize",
	"shadowcolor":  "shadowColor",
	"shawcolor":    "shadowColor",
	"shadowblur":   "shadowBlur",
	"shawblur":     "shadowBlur",
	"shadowx":      "shadowX",
	"shawx":        "shadowX",
	"shadowy":      "shadowY",
	"shawy":        "shadowY",
	"opacity":      "opacity",
	"base":         "base",
	"left":         "left",
	"weight":       "weight",
	"bg":           "background",
	"background":   "background",
}

// canonical name for a style key, false when unknown
func StyleKey(key string) (string, bool) {
	k := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(strings.TrimSpace(key)))
	canonical, ok := styleKeys[k]
	return canonical, ok
}

// updates one field from its textual value.
// It reports whether the change affects the line height.
func (s *Style) Set(key, value string) (bool, error) {
	canonical, ok := StyleKey(key)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownStyle, key)
	}

	value = strings.TrimSpace(value)

	number := func(dst *float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("style %s: invalid number %q", canonical, value)
		}
		*dst = v
		return nil
	}

	switch canonical {
	case "family":
		s.Family = value
		return true, nil
	case "size":
		return true, number(&s.Size)
	case "lineSpacing":
		return false, number(&s.LineSpacing)
	case "color":
		s.Color = value
	case "align":
		s.Align = value
	case "direction":
		s.Direction = value
	case "outlineColor":
		s.OutlineColor = value
	case "outlineSize":
		return false, number(&s.OutlineSize)
	case "shadowColor":
		s.ShadowColor = value
	case "shadowBlur":
		return false, number(&s.ShadowBlur)
	case "shadowX":
		return false, number(&s.ShadowX)
	case "shadowY":
		return false, number(&s.ShadowY)
	case "opacity":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(v) {
			v = 1
		}
		s.Opacity = v
	case "base":
		return false, number(&s.Base)
	case "left":
		return false, number(&s.Left)
	case "weight":
		s.Weight = value
	case "background":
		s.Background = value
	}
	return false, nil
}

// playback state of the store: which document is shown and how
type Session struct {
	ActiveTitle string
	Offset      float64
	Speed       float64
	Style       Style
	Activated   bool

	// working view of the active document
	Format subtitle.Format
	Cues   []subtitle.Cue
	Meta   map[string]string
	Names  []string
}

func newSession(style Style) Session {
	return Session{
		Speed: 1,
		Style: style,
		Meta:  make(map[string]string),
	}
}

// playback time mapped onto the document timeline
func (s *Session) query(raw float64) float64 {
	return raw*s.Speed - s.Offset
}

func (s *Session) load(doc *subtitle.Document) {
	view := doc.Clone()
	s.ActiveTitle = doc.Title
	s.Format = view.Format
	s.Cues = view.Cues
	s.Meta = view.Meta
	s.Names = view.Names
}

// document rebuilt from the working view, used for export
func (s *Session) view() *subtitle.Document {
	return &subtitle.Document{
		Title:  s.ActiveTitle,
		Format: s.Format,
		Cues:   s.Cues,
		Count:  len(s.Cues),
		Meta:   s.Meta,
		Names:  s.Names,
		Active: true,
	}
}

func (s Session) clone() Session {
	out := s
	doc := s.view().Clone()
	out.Cues = doc.Cues
	out.Meta = doc.Meta
	out.Names = doc.Names
	return out
}
