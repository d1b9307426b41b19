package visualizer

import (
	"math"
	"strings"

	"github.com/olivier-w/mechanics/internal/motion"
)

// Trace plots output and target over time using Unicode Braille characters.
// Each cell is a 2x4 dot grid, so every frame gets one dot column.
type Trace struct {
	output string
}

func NewTrace() *Trace { return &Trace{} }

func (t *Trace) Name() string { return "trace" }

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

func (t *Trace) Update(frames []motion.FrameData, scale Scale, width, height int) {
	if height < 1 {
		height = 1
	}
	cols := max(2, width-2)
	dotCols := cols * 2
	dotRows := height * 4

	// Newest frame on the right.
	if len(frames) > dotCols {
		frames = frames[len(frames)-dotCols:]
	}
	offset := dotCols - len(frames)

	// dot row counted from the top, -1 for no dot
	level := func(v float64) int {
		return dotRows - 1 - int(math.Round(scale.Of(v)*float64(dotRows-1)))
	}
	outRow := make([]int, dotCols)
	targetRow := make([]int, dotCols)
	heat := make([]float64, dotCols)
	jumped := make([]bool, dotCols)
	for dc := range dotCols {
		outRow[dc], targetRow[dc] = -1, -1
		i := dc - offset
		if i < 0 {
			continue
		}
		f := frames[i]
		outRow[dc] = level(f.Output)
		if !f.IsStable {
			// dotted
			targetRow[dc] = level(f.OutputTarget)
		}
		if span := scale.Span(); span != 0 {
			heat[dc] = math.Abs(f.Spring.Displacement) / math.Abs(span)
		}
		jumped[dc] = f.SegmentChanged
	}

	var out strings.Builder
	p := newPainter()
	for row := range height {
		if row > 0 {
			p.flush(&out)
			out.WriteByte('\n')
		}
		for col := range cols {
			var pattern uint
			var h float64
			jump := false
			for dx := range 2 {
				dc := col*2 + dx
				h = max(h, heat[dc])
				jump = jump || jumped[dc]
				for dy := range 4 {
					dotRow := row*4 + dy
					if outRow[dc] == dotRow || (targetRow[dc] == dotRow && dc%2 == 0) {
						pattern |= 1 << brailleBits[dx][dy]
					}
				}
			}
			r := rune(0x2800 + pattern)
			switch {
			case pattern == 0:
				p.plain(&out, r)
			case jump:
				p.write(&out, jumpColor, r)
			default:
				p.write(&out, motionColor(h), r)
			}
		}
	}
	p.flush(&out)
	t.output = out.String()
}

func (t *Trace) View() string {
	return t.output
}
