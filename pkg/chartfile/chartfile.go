// Package chartfile parses declarative bridge chart definitions.
//
// Definitions describe a chart's segments, totals mask, and layers in TOML
// or JSON, so charts can be authored outside code and stored as documents:
//
//	title    = "Q3 revenue bridge"
//	segments = ["Start", "Product", "Churn", "End"]
//	totals   = [true, false, false, true]
//
//	[[layer]]
//	values = [120.0, 30.0, -18.0, 132.0]
//	  [layer.style]
//	  color = "#4e79a7"
//	  label = "core business"
//
// A gap (no bar drawn, zero height contributed) is written as nan in TOML
// and null in JSON. The same Definition type is used by the HTTP service
// for storage, so fields carry json, bson, and toml tags.
package chartfile

import (
	"encoding/json"
	"math"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cdyellick/ponte/pkg/bridge"
	"github.com/cdyellick/ponte/pkg/errors"
)

// Definition is the serializable description of a bridge chart.
type Definition struct {
	Title    string     `json:"title,omitempty" bson:"title,omitempty" toml:"title"`
	Segments []string   `json:"segments" bson:"segments" toml:"segments"`
	Totals   []bool     `json:"totals,omitempty" bson:"totals,omitempty" toml:"totals"`
	Layers   []LayerDef `json:"layers,omitempty" bson:"layers,omitempty" toml:"layer"`
}

// LayerDef is one layer of a chart definition. Layers are applied in file
// order; each is placed at the bottom of the stack unless AtTop is set,
// matching the core's insertion semantics.
type LayerDef struct {
	Values []float64      `json:"-" bson:"values" toml:"values"`
	AtTop  bool           `json:"at_top,omitempty" bson:"at_top,omitempty" toml:"at_top"`
	Style  map[string]any `json:"style,omitempty" bson:"style,omitempty" toml:"style"`
}

// jsonLayerDef mirrors LayerDef for JSON, where gaps are null instead of
// NaN (encoding/json rejects NaN).
type jsonLayerDef struct {
	Values []*float64     `json:"values"`
	AtTop  bool           `json:"at_top,omitempty"`
	Style  map[string]any `json:"style,omitempty"`
}

// MarshalJSON encodes gap values as null.
func (l LayerDef) MarshalJSON() ([]byte, error) {
	out := jsonLayerDef{AtTop: l.AtTop, Style: l.Style}
	out.Values = make([]*float64, len(l.Values))
	for i, v := range l.Values {
		if !math.IsNaN(v) {
			v := v
			out.Values[i] = &v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes null values as gaps.
func (l *LayerDef) UnmarshalJSON(data []byte) error {
	var in jsonLayerDef
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	l.AtTop = in.AtTop
	l.Style = in.Style
	l.Values = make([]float64, len(in.Values))
	for i, v := range in.Values {
		if v == nil {
			l.Values[i] = math.NaN()
		} else {
			l.Values[i] = *v
		}
	}
	return nil
}

// ParseTOML decodes a TOML chart definition.
func ParseTOML(data []byte) (Definition, error) {
	var d Definition
	if err := toml.Unmarshal(data, &d); err != nil {
		return Definition{}, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "decode TOML definition")
	}
	return d, nil
}

// ParseJSON decodes a JSON chart definition.
func ParseJSON(data []byte) (Definition, error) {
	var d Definition
	if err := json.Unmarshal(data, &d); err != nil {
		return Definition{}, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "decode JSON definition")
	}
	return d, nil
}

// Parse decodes a definition, choosing the codec from the filename
// extension (.toml or .json).
func Parse(filename string, data []byte) (Definition, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return ParseTOML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return Definition{}, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported definition file %q (want .toml or .json)", filename)
	}
}

// Build constructs the core chart from the definition, applying layers in
// file order. Shape violations surface as the core's validation errors.
func (d Definition) Build() (*bridge.Chart, error) {
	var opts []bridge.Option
	if d.Totals != nil {
		opts = append(opts, bridge.WithTotals(d.Totals))
	}
	chart, err := bridge.New(d.Segments, opts...)
	if err != nil {
		return nil, err
	}

	for i, layer := range d.Layers {
		var layerOpts []bridge.LayerOption
		if layer.AtTop {
			layerOpts = append(layerOpts, bridge.AtTop())
		}
		if layer.Style != nil {
			layerOpts = append(layerOpts, bridge.WithStyle(layer.Style))
		}
		if err := chart.AddLayer(layer.Values, layerOpts...); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "layer %d", i+1)
		}
	}
	return chart, nil
}

// Canonical returns a stable JSON encoding of the definition, suitable for
// content-addressed cache keys.
func (d Definition) Canonical() ([]byte, error) {
	return json.Marshal(d)
}
