package visualizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type colorRGB struct {
	R uint8
	G uint8
	B uint8
}

func (c colorRGB) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpColor(a, b colorRGB, t float64) colorRGB {
	t = clamp01(t)
	return colorRGB{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

func rgbFromHSV(h, s, v float64) colorRGB {
	h = math.Mod(h, 1)
	if h < 0 {
		h += 1
	}
	s = clamp01(s)
	v = clamp01(v)

	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return colorRGB{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255)}
}

var (
	restColor   = colorRGB{R: 80, G: 200, B: 120}
	movingColor = colorRGB{R: 255, G: 200, B: 60}
	jumpColor   = colorRGB{R: 255, G: 80, B: 60}
)

// motionColor goes from green at rest through amber to red for a spring
// displaced by the whole output range.
func motionColor(t float64) colorRGB {
	t = clamp01(t)
	if t < 0.5 {
		return lerpColor(restColor, movingColor, t/0.5)
	}
	return lerpColor(movingColor, jumpColor, (t-0.5)/0.5)
}

// painter writes runs of same-coloured text through lipgloss, which drops
// the colour on terminals that cannot show it.
type painter struct {
	styles map[colorRGB]lipgloss.Style
	run    strings.Builder
	color  colorRGB
}

func newPainter() *painter {
	return &painter{styles: make(map[colorRGB]lipgloss.Style)}
}

func (p *painter) write(out *strings.Builder, c colorRGB, r rune) {
	if p.run.Len() > 0 && c != p.color {
		p.flush(out)
	}
	p.color = c
	p.run.WriteRune(r)
}

func (p *painter) plain(out *strings.Builder, r rune) {
	p.flush(out)
	out.WriteRune(r)
}

func (p *painter) flush(out *strings.Builder) {
	if p.run.Len() == 0 {
		return
	}
	st, ok := p.styles[p.color]
	if !ok {
		st = lipgloss.NewStyle().Foreground(lipgloss.Color(p.color.hex()))
		p.styles[p.color] = st
	}
	out.WriteString(st.Render(p.run.String()))
	p.run.Reset()
}
