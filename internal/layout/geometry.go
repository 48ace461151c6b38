// Package layout composes a task's rendered text with its first attached
// image, for both output targets. The geometry table is the single source
// of truth: LaTeX and HTML emitters read the same entry, so a position
// renders with the same proportions in print and in the browser.
package layout

import (
	"github.com/yungbote/taskbank-backend/internal/types"
)

type Arrangement string

const (
	SideBySide Arrangement = "side_by_side"
	Vertical   Arrangement = "vertical"
)

// Geometry describes how text and image share the page for one position.
// Width values are LaTeX length expressions; Percent is the image's share
// for the HTML side.
type Geometry struct {
	Arrangement Arrangement
	TextWidth   string
	ImageWidth  string
	Percent     int
}

var geometries = map[string]Geometry{
	types.PositionRight40: {
		Arrangement: SideBySide,
		TextWidth:   `0.55\textwidth`,
		ImageWidth:  `0.4\textwidth`,
		Percent:     40,
	},
	types.PositionRight20: {
		Arrangement: SideBySide,
		TextWidth:   `0.75\textwidth`,
		ImageWidth:  `0.2\textwidth`,
		Percent:     20,
	},
	types.PositionBottom100: {
		Arrangement: Vertical,
		TextWidth:   `\textwidth`,
		ImageWidth:  `\textwidth`,
		Percent:     100,
	},
	types.PositionBottom70: {
		Arrangement: Vertical,
		TextWidth:   `\textwidth`,
		ImageWidth:  `0.7\textwidth`,
		Percent:     70,
	},
}

// GeometryFor resolves a stored position value. Unknown or legacy values
// degrade to the bottom_70 geometry rather than failing the document.
func GeometryFor(position string) Geometry {
	if g, ok := geometries[position]; ok {
		return g
	}
	return geometries[types.PositionBottom70]
}
