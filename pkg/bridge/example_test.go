package bridge_test

import (
	"fmt"

	"github.com/cdyellick/ponte/pkg/bridge"
)

// Build a revenue bridge with a grand-total segment and stack a second
// band of adjustments on top.
func Example() {
	chart, err := bridge.New(
		[]string{"Start", "Growth", "End"},
		bridge.WithTotals([]bool{false, false, true}),
	)
	if err != nil {
		panic(err)
	}

	if err := chart.AddLayer([]float64{5, 5, 5}); err != nil {
		panic(err)
	}
	if err := chart.AddLayer([]float64{1, 1, 1}, bridge.AtTop()); err != nil {
		panic(err)
	}

	for layer := range chart.Layers() {
		fmt.Println(layer.Bottom)
	}
	// Output:
	// [0 5 0]
	// [5 11 5]
}
