package cli

import (
	"fmt"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cdyellick/ponte/pkg/bridge"
	"github.com/cdyellick/ponte/pkg/chartfile"
	"github.com/cdyellick/ponte/pkg/errors"
	"github.com/cdyellick/ponte/pkg/render/styles"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newPreviewCmd creates the preview command for inspecting a chart in the
// terminal before rendering it.
func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [file]",
		Short: "Inspect a chart's segments, layers, and offsets interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", args[0])
			}
			def, err := chartfile.Parse(args[0], data)
			if err != nil {
				return err
			}
			chart, err := def.Build()
			if err != nil {
				return err
			}

			model := newPreviewModel(def, chart)
			if _, err := tea.NewProgram(model).Run(); err != nil {
				return err
			}
			printNextStep("Render it", fmt.Sprintf("ponte render %s", args[0]))
			return nil
		},
	}
}

// previewLayer is one chart layer flattened for display.
type previewLayer struct {
	label   string
	values  []float64
	bottoms []float64
}

// previewModel is the bubbletea model for the chart preview.
type previewModel struct {
	title    string
	segments []string
	totals   []bool
	layers   []previewLayer
	cursor   int // selected segment
}

// newPreviewModel flattens the chart into display rows.
func newPreviewModel(def chartfile.Definition, chart *bridge.Chart) previewModel {
	m := previewModel{
		title:    def.Title,
		segments: chart.SegmentLabels(),
		totals:   chart.Totals(),
	}
	i := 0
	for layer := range chart.Layers() {
		label := styles.ResolveLabel(layer.Style)
		if label == "" {
			label = fmt.Sprintf("layer %d", i+1)
		}
		m.layers = append(m.layers, previewLayer{
			label:   label,
			values:  layer.Values,
			bottoms: layer.Bottom,
		})
		i++
	}
	return m
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.segments)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	title := m.title
	if title == "" {
		title = "Chart Preview"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	headers := []string{"", "Segment", "Total"}
	for _, l := range m.layers {
		headers = append(headers, l.label)
	}

	rows := [][]string{}
	for i, label := range m.segments {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		total := ""
		if m.totals[i] {
			total = "✓"
		}
		row := []string{cursor, label, total}
		for _, l := range m.layers {
			row = append(row, formatSegmentCell(l.values[i], l.bottoms[i]))
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  cells show value @ bottom offset", m.cursor+1, len(m.segments))))

	return b.String()
}

// formatSegmentCell renders one value/offset pair. Gaps show as a dot.
func formatSegmentCell(value, bottom float64) string {
	if math.IsNaN(value) {
		return "·"
	}
	return fmt.Sprintf("%s @ %s", formatNumber(value), formatNumber(bottom))
}

// formatNumber trims trailing zeros from whole values.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
