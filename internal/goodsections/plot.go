package goodsections

import (
	"fmt"
	"io"
)

const (
	svgWidth     = 960.0
	svgHeight    = 80.0
	svgBarHeight = 48.0
	svgBarY      = (svgHeight - svgBarHeight) / 2
	secsPerDay   = 86400.0
)

// WriteSVG renders the merged sections as an SVG strip chart: one fixed-height
// bar per section, positioned at its start and sized proportionally to its
// duration in days.
func (g *GoodSections) WriteSVG(w io.Writer) error {
	combined, err := g.Combined()
	if err != nil {
		return err
	}

	var originNs, spanNs int64

	if len(combined) > 0 {
		originNs = combined[0].Start().UnixNano()
		spanNs = combined[len(combined)-1].End().UnixNano() - originNs
	}

	if spanNs <= 0 {
		spanNs = 1
	}

	if _, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		svgWidth, svgHeight, svgWidth, svgHeight,
	); err != nil {
		return err
	}

	for _, section := range combined {
		var (
			x     = float64(section.Start().UnixNano()-originNs) / float64(spanNs) * svgWidth
			width = float64(section.Duration().Nanoseconds()) / float64(spanNs) * svgWidth
			days  = section.Duration().Seconds() / secsPerDay
		)

		if _, err := fmt.Fprintf(w,
			`  <rect x="%.2f" y="%.0f" width="%.2f" height="%.0f" fill="#1f77b4"><title>%s (%.2f days)</title></rect>`+"\n",
			x, svgBarY, width, svgBarHeight, section.String(), days,
		); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, "</svg>\n")

	return err
}
