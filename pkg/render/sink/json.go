package sink

import "github.com/cdyellick/ponte/pkg/render"

// RenderJSON exports the layout itself, for consumers that draw with their
// own toolkit or re-import via render.UnmarshalLayout.
func RenderJSON(l render.Layout) ([]byte, error) {
	return render.MarshalLayout(l)
}
