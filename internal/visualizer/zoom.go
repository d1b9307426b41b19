package visualizer

import "github.com/charmbracelet/harmonica"

// axisZoom eases a plot's half-extents towards the range of recent data so
// the axes do not jump every frame.
type axisZoom struct {
	spring  harmonica.Spring
	extents [2]float64
	rates   [2]float64
	primed  bool
}

func newAxisZoom(fps int) axisZoom {
	return axisZoom{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// fit returns the eased extents for the wanted x and y extents. The first
// call adopts them directly.
func (z *axisZoom) fit(x, y float64) (float64, float64) {
	want := [2]float64{x, y}
	if !z.primed {
		z.extents, z.primed = want, true
		return x, y
	}
	for i := range want {
		z.extents[i], z.rates[i] = z.spring.Update(z.extents[i], z.rates[i], want[i])
	}
	return z.extents[0], z.extents[1]
}
