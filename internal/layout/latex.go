package layout

import (
	"fmt"
	"strings"

	"github.com/yungbote/taskbank-backend/internal/render"
	"github.com/yungbote/taskbank-backend/internal/types"
)

// ComposeLaTeX wraps already-rendered task text and one image into the
// geometry for the image's position. imagePath is emitted verbatim into
// \includegraphics, so it must be resolvable from the compile directory.
func (c *Composer) ComposeLaTeX(text string, img *types.TaskImage, imagePath string) string {
	if img == nil || imagePath == "" {
		return text
	}

	g := GeometryFor(img.Position)
	caption := ""
	if img.Caption != "" {
		caption = fmt.Sprintf(`\\[0.2cm] \small\textit{%s}`, render.EscapeLaTeX(img.Caption))
	}

	if g.Arrangement == SideBySide {
		return c.composeSideBySide(text, g, imagePath, caption)
	}
	return c.composeVertical(text, g, imagePath, caption)
}

func (c *Composer) composeSideBySide(text string, g Geometry, imagePath, caption string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{minipage}[t]{%s}\n", g.TextWidth)
	b.WriteString(text)
	b.WriteString("\n\\end{minipage}%\n\\hfill\n")
	fmt.Fprintf(&b, "\\begin{minipage}[t]{%s}\n", g.ImageWidth)
	// The top-aligned minipage still leaves the image below the first
	// baseline; pull it back up level with the text.
	b.WriteString("\\vspace*{-3em}\n")
	fmt.Fprintf(&b, "\\includegraphics[width=\\linewidth]{%s}\n", imagePath)
	if caption != "" {
		b.WriteString(caption)
		b.WriteString("\n")
	}
	b.WriteString("\\end{minipage}")
	return b.String()
}

func (c *Composer) composeVertical(text string, g Geometry, imagePath, caption string) string {
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n\\vspace{0.5cm}\n\\begin{center}\n")
	fmt.Fprintf(&b, "\\includegraphics[width=%s]{%s}\n", g.ImageWidth, imagePath)
	if caption != "" {
		b.WriteString(caption)
		b.WriteString("\n")
	}
	b.WriteString("\\end{center}")
	return b.String()
}
