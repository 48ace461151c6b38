package layout

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/taskbank-backend/internal/render"
	"github.com/yungbote/taskbank-backend/internal/types"
)

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

func mimeFor(path string) string {
	if m, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return "image/png"
}

// DataURI reads the image file and embeds it as a base64 data URI, so the
// generated page has no external file references and can be rasterized
// from anywhere.
func DataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", path, err)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeFor(path), base64.StdEncoding.EncodeToString(data)), nil
}

// ComposeHTML wraps already-rendered task text and one image into a BEM
// block. A missing or unreadable image file degrades to text-only output
// with a warning; a broken attachment must not sink the document.
func (c *Composer) ComposeHTML(text string, img *types.TaskImage) string {
	if img == nil {
		return text
	}

	uri, err := DataURI(img.FilePath)
	if err != nil {
		c.log.Warn("skipping unreadable image", "path", img.FilePath, "error", err)
		return text
	}

	g := GeometryFor(img.Position)
	layoutToken, positionToken := "vertical", "bottom"
	if g.Arrangement == SideBySide {
		layoutToken, positionToken = "horizontal", "right"
	}

	alt := img.Caption
	if alt == "" {
		alt = "task illustration"
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		`<div class="task-with-image task-with-image_layout_%s task-with-image_image-position_%s task-with-image_image-size_%d">`,
		layoutToken, positionToken, g.Percent)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<div class="task-with-image__text">%s</div>`, text)
	b.WriteString("\n")
	b.WriteString(`<div class="task-with-image__image">`)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<img class="task-with-image__img" src="%s" alt="%s">`, uri, render.EscapeHTML(alt))
	b.WriteString("\n")
	if img.Caption != "" {
		fmt.Fprintf(&b, `<div class="task-with-image__caption">%s</div>`, render.EscapeHTML(img.Caption))
		b.WriteString("\n")
	}
	b.WriteString("</div>\n</div>")
	return b.String()
}
