package envelope

import "gonum.org/v1/gonum/interp"

// Level evaluates the curve at time t by linear interpolation between
// neighbouring nodes. Before the first node and after the last the end
// levels are held. Where several nodes share an X only the last of them is
// used.
func (g *Graph) Level(t float64) float64 {
	xs := make([]float64, 0, len(g.nodes))
	ys := make([]float64, 0, len(g.nodes))
	for _, e := range g.nodes {
		x, y := float64(e.pt.X), float64(e.pt.Y)
		if n := len(xs); n > 0 && xs[n-1] >= x {
			// Out of order nodes (via SetNode) collapse onto the previous X.
			ys[n-1] = y
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 1 {
		return ys[0]
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return ys[len(ys)-1]
	}
	return pl.Predict(t)
}
