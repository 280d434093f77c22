package bridge

import "math"

// recompute derives bottom offsets for every layer in stacking order,
// returning a fresh annotated list. The running tops vector tracks the
// height already stacked at each segment position and carries forward from
// layer to layer.
func recompute(layers []Layer, totals []bool) []Layer {
	tops := make([]float64, len(totals))
	out := make([]Layer, len(layers))

	for li, layer := range layers {
		clean := cleanValues(layer.Values)
		out[li] = Layer{
			Values: layer.Values,
			Bottom: computeBottom(clean, tops, totals),
			Style:  layer.Style,
		}
		for i, v := range clean {
			tops[i] += v
		}
	}
	return out
}

// computeBottom places one layer on top of the current segment tops.
//
// Each segment's candidate bottom is its current top plus the previous
// segment's value from the same layer (a right shift of the layer's own
// values). Candidates are then summed cumulatively left to right, except at
// total segments: a total sits directly on its own top, discarding both the
// shift carry and the running sum, and reseeds the accumulator from there.
//
// The right-shift coupling between neighboring segments is inherited chart
// semantics, pinned down by the worked examples in the package tests.
// Changing it to a conventional waterfall formula would silently change the
// meaning of existing charts.
func computeBottom(clean, tops []float64, totals []bool) []float64 {
	bottom := make([]float64, len(clean))
	var cum float64

	for i := range clean {
		var shifted float64
		if i > 0 {
			shifted = clean[i-1]
		}
		if totals[i] {
			bottom[i] = tops[i]
			cum = tops[i]
		} else {
			cum += tops[i] + shifted
			bottom[i] = cum
		}
	}
	return bottom
}

// cleanValues replaces NaN gaps with zero for offset math. The stored layer
// keeps the NaN sentinel untouched.
func cleanValues(values []float64) []float64 {
	clean := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			clean[i] = 0
		} else {
			clean[i] = v
		}
	}
	return clean
}
