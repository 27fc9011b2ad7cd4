package reader

import "fmt"

// Theme is the reading surface color scheme. It is independent of the
// application light/dark theme.
type Theme string

const (
	ThemeSepia  Theme = "sepia"
	ThemeLight  Theme = "light"
	ThemeSilver Theme = "silver"
	ThemeDark   Theme = "dark"
)

// Themes lists the reader themes in cycling order.
var Themes = []Theme{ThemeSepia, ThemeLight, ThemeSilver, ThemeDark}

// Palette holds the hex colors of a theme.
type Palette struct {
	Background string
	Text       string
}

var palettes = map[Theme]Palette{
	ThemeSepia:  {Background: "#F4ECD8", Text: "#2C2416"},
	ThemeLight:  {Background: "#FFFFFF", Text: "#1F2937"},
	ThemeSilver: {Background: "#E8E8E8", Text: "#1F2937"},
	ThemeDark:   {Background: "#1A1A1A", Text: "#E5E7EB"},
}

func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeSepia]
}

// Layout arranges PDF pages one or two per row.
type Layout string

const (
	LayoutSingle Layout = "single"
	LayoutDouble Layout = "double"
)

const (
	DefaultFontSize = 18
	MinFontSize     = 14
	MaxFontSize     = 28
	FontSizeStep    = 2

	DefaultZoom = 1.5
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 0.25
)

// Presentation is the per-open display state of the reader.
type Presentation struct {
	FontSize int
	Zoom     float64
	Theme    Theme
	Layout   Layout
}

func DefaultPresentation() Presentation {
	return Presentation{
		FontSize: DefaultFontSize,
		Zoom:     DefaultZoom,
		Theme:    ThemeSepia,
		Layout:   LayoutSingle,
	}
}

func (p Presentation) IncreaseFont() Presentation {
	p.FontSize = min(MaxFontSize, p.FontSize+FontSizeStep)
	return p
}

func (p Presentation) DecreaseFont() Presentation {
	p.FontSize = max(MinFontSize, p.FontSize-FontSizeStep)
	return p
}

func (p Presentation) ZoomIn() Presentation {
	p.Zoom = min(MaxZoom, p.Zoom+ZoomStep)
	return p
}

func (p Presentation) ZoomOut() Presentation {
	p.Zoom = max(MinZoom, p.Zoom-ZoomStep)
	return p
}

// NextTheme cycles sepia, light, silver, dark.
func (p Presentation) NextTheme() Presentation {
	for i, t := range Themes {
		if t == p.Theme {
			p.Theme = Themes[(i+1)%len(Themes)]
			return p
		}
	}
	p.Theme = ThemeSepia
	return p
}

func (p Presentation) WithTheme(t Theme) (Presentation, error) {
	if _, ok := palettes[t]; !ok {
		return p, fmt.Errorf("unknown reader theme %q", t)
	}
	p.Theme = t
	return p, nil
}

func (p Presentation) ToggleLayout() Presentation {
	if p.Layout == LayoutDouble {
		p.Layout = LayoutSingle
	} else {
		p.Layout = LayoutDouble
	}
	return p
}

// ZoomLabel renders the zoom as a percentage, e.g. "150%".
func (p Presentation) ZoomLabel() string {
	return fmt.Sprintf("%d%%", int(p.Zoom*100+0.5))
}
