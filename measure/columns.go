package measure

import (
	"strconv"
	"strings"

	"github.com/wudi/docflow/document"
)

// DistributeWidths resolves declared column widths against an
// available width. Specs are "auto", "*" (or empty) or a fixed number,
// optionally a percentage of the available width. Fixed widths are
// honored as declared; auto columns get between their min and max
// width, scaled proportionally when space is tight; star columns share
// the remainder equally, floored at their min width.
func DistributeWidths(specs []string, mins, maxs []float64, availableWidth float64) []float64 {
	n := len(specs)
	widths := make([]float64, n)
	minAt := func(i int) float64 {
		if i < len(mins) {
			return mins[i]
		}
		return 0
	}
	maxAt := func(i int) float64 {
		if i < len(maxs) {
			return maxs[i]
		}
		return 0
	}

	var stars, autos []int
	remaining := availableWidth
	for i, spec := range specs {
		switch {
		case spec == "auto":
			autos = append(autos, i)
		case spec == "" || spec == "*" || spec == "star":
			stars = append(stars, i)
		case strings.HasSuffix(spec, "%"):
			pct, _ := strconv.ParseFloat(strings.TrimSuffix(spec, "%"), 64)
			widths[i] = availableWidth * pct / 100
			remaining -= widths[i]
		default:
			if v, ok := parseFixedWidth(spec); ok {
				widths[i] = v
			} else {
				widths[i] = minAt(i)
			}
			remaining -= widths[i]
		}
	}

	starMin := 0.0
	for _, i := range stars {
		if minAt(i) > starMin {
			starMin = minAt(i)
		}
	}
	autoMin, autoMax := 0.0, 0.0
	for _, i := range autos {
		autoMin += minAt(i)
		autoMax += maxAt(i)
	}

	switch {
	case autoMin+starMin*float64(len(stars)) >= remaining:
		// Over-constrained: everything collapses to its minimum.
		for _, i := range autos {
			widths[i] = minAt(i)
		}
		for _, i := range stars {
			widths[i] = starMin
		}
	default:
		if autoMax+starMin*float64(len(stars)) <= remaining {
			for _, i := range autos {
				widths[i] = maxAt(i)
			}
		} else {
			ratio := 0.0
			if autoMax > autoMin {
				ratio = (remaining - starMin*float64(len(stars)) - autoMin) / (autoMax - autoMin)
			}
			for _, i := range autos {
				widths[i] = minAt(i) + ratio*(maxAt(i)-minAt(i))
			}
		}
		if len(stars) > 0 {
			used := 0.0
			for _, i := range autos {
				used += widths[i]
			}
			share := (remaining - used) / float64(len(stars))
			for _, i := range stars {
				widths[i] = share
				if widths[i] < minAt(i) {
					widths[i] = minAt(i)
				}
			}
		}
	}
	return widths
}

// DistributeColumnWidths resolves the widths of column nodes in place.
func DistributeColumnWidths(columns []*document.Node, availableWidth float64) {
	specs := make([]string, len(columns))
	mins := make([]float64, len(columns))
	maxs := make([]float64, len(columns))
	for i, col := range columns {
		specs[i] = col.WidthSpec
		mins[i] = col.MinWidth
		maxs[i] = col.MaxWidth
	}
	widths := DistributeWidths(specs, mins, maxs, availableWidth)
	for i, col := range columns {
		col.Width = widths[i]
	}
}
