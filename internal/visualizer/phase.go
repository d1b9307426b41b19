package visualizer

import (
	"math"
	"strings"

	"github.com/olivier-w/mechanics/internal/motion"
)

var phaseTrail = []rune{'·', '•', '✶', '✹'}

// Phase plots spring displacement against velocity. The axes zoom smoothly
// to fit the recent trail.
type Phase struct {
	zoom   axisZoom
	output string
}

func NewPhase() *Phase {
	return &Phase{zoom: newAxisZoom(30)}
}

func (p *Phase) Name() string { return "phase" }

// minExtent keeps the axes from collapsing onto a spring at rest.
const minExtent = 1e-3

func (p *Phase) Update(frames []motion.FrameData, scale Scale, width, height int) {
	if width < 6 || height < 2 {
		p.output = ""
		return
	}
	cols := max(8, width-2)
	rows := height

	trail := frames
	if maxTrail := max(32, cols*2); len(trail) > maxTrail {
		trail = trail[len(trail)-maxTrail:]
	}

	maxD, maxV := minExtent, minExtent
	for _, f := range trail {
		maxD = max(maxD, math.Abs(f.Spring.Displacement))
		maxV = max(maxV, math.Abs(f.Spring.Velocity))
	}
	if span := math.Abs(scale.Span()); span > 0 {
		maxD = min(maxD, span)
	}
	dx, dv := p.zoom.fit(maxD, maxV)
	dx, dv = max(minExtent, dx), max(minExtent, dv)

	chars := make([][]rune, rows)
	ages := make([][]float64, rows)
	for r := range rows {
		chars[r] = make([]rune, cols)
		ages[r] = make([]float64, cols)
		for c := range cols {
			chars[r][c] = ' '
			ages[r][c] = 1
		}
	}
	// axes
	midR, midC := rows/2, cols/2
	for c := range cols {
		chars[midR][c] = '─'
	}
	for r := range rows {
		chars[r][midC] = '│'
	}
	chars[midR][midC] = '┼'

	for i, f := range trail {
		x := int(math.Round(clamp01(0.5+0.5*f.Spring.Displacement/dx) * float64(cols-1)))
		y := int(math.Round((1 - clamp01(0.5+0.5*f.Spring.Velocity/dv)) * float64(rows-1)))
		age := float64(len(trail)-1-i) / float64(max(1, len(trail)-1))
		chars[y][x] = phaseTrail[min(len(phaseTrail)-1, int((1-age)*float64(len(phaseTrail)-1)))]
		ages[y][x] = min(ages[y][x], age)
	}

	var out strings.Builder
	pt := newPainter()
	for r := range rows {
		if r > 0 {
			pt.flush(&out)
			out.WriteByte('\n')
		}
		for c := range cols {
			ch := chars[r][c]
			if ages[r][c] >= 1 {
				pt.plain(&out, ch)
				continue
			}
			age := clamp01(1 - ages[r][c])
			hue := math.Mod(0.08+float64(c)/float64(cols)*0.75+age*0.12, 1)
			pt.write(&out, rgbFromHSV(hue, 0.78, 0.3+0.7*age), ch)
		}
	}
	pt.flush(&out)
	p.output = out.String()
}

func (p *Phase) View() string {
	return p.output
}
